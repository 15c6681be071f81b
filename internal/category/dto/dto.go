package dto

type CategoryFilters struct {
	Offset int
	Limit  int
}
