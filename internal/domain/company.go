package domain

type Company struct {
	ID   string
	Name string
}
