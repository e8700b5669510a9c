package domain

type Site struct {
	Name string
}
