package domain

// Author wrote one or more products.
type Author struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Bio    string `json:"bio,omitempty"`
	Active bool   `json:"active"`
}

// Category groups products.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// Editorial is a publisher.
type Editorial struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Product is a catalog item (usually a book).
type Product struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	ISBN            string     `json:"isbn"`
	Code            string     `json:"code"`
	ImageURL        string     `json:"imageUrl,omitempty"`
	Author          *Author    `json:"author,omitempty"`
	Category        *Category  `json:"category,omitempty"`
	Editorial       *Editorial `json:"editorial,omitempty"`
	Price           float64    `json:"price"`
	Stock           int        `json:"stock"`
	Description     string     `json:"description,omitempty"`
	PublicationDate string     `json:"publicationDate,omitempty"`
	Active          bool       `json:"active"`
}

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Title           string  `json:"title"`
	ISBN            string  `json:"isbn"`
	Code            string  `json:"code"`
	ImageURL        string  `json:"imageUrl,omitempty"`
	AuthorID        int64   `json:"authorId"`
	CategoryID      int64   `json:"categoryId"`
	EditorialID     int64   `json:"editorialId"`
	Price           float64 `json:"price"`
	Stock           int     `json:"stock"`
	Description     string  `json:"description,omitempty"`
	PublicationDate string  `json:"publicationDate,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

// Page is a Spring-style paginated response.
type Page[T any] struct {
	Content          []T  `json:"content"`
	TotalElements    int  `json:"totalElements"`
	TotalPages       int  `json:"totalPages"`
	Size             int  `json:"size"`
	Number           int  `json:"number"`
	NumberOfElements int  `json:"numberOfElements"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	Empty            bool `json:"empty"`
}
