package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// ProductFilter narrows product listings. Zero values are omitted.
type ProductFilter struct {
	CategoryID  int64
	EditorialID int64
	AuthorID    int64
	MinPrice    float64
	MaxPrice    float64
	Title       string
	Sort        string // field and direction, e.g. "title,asc"
	Page        int
	Size        int
}

func (f ProductFilter) values() url.Values {
	params := url.Values{}
	setID := func(key string, v int64) {
		if v > 0 {
			params.Set(key, strconv.FormatInt(v, 10))
		}
	}
	setID("categoryId", f.CategoryID)
	setID("editorialId", f.EditorialID)
	setID("authorId", f.AuthorID)
	if f.MinPrice > 0 {
		params.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		params.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Title != "" {
		params.Set("title", f.Title)
	}
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Size > 0 {
		params.Set("size", strconv.Itoa(f.Size))
	}
	return params
}

func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

// ListProducts returns a page of products for staff screens.
func (c *Client) ListProducts(ctx context.Context, f ProductFilter) (*domain.Page[domain.Product], error) {
	var page domain.Page[domain.Product]
	if err := c.get(ctx, withQuery("/api/products", f.values()), &page); err != nil {
		return nil, fmt.Errorf("client.ListProducts: %w", err)
	}
	return &page, nil
}

// ListPublicProducts returns a page of the public catalog; no session required.
func (c *Client) ListPublicProducts(ctx context.Context, f ProductFilter) (*domain.Page[domain.Product], error) {
	var page domain.Page[domain.Product]
	if err := c.get(ctx, withQuery("/api/products/public", f.values()), &page); err != nil {
		return nil, fmt.Errorf("client.ListPublicProducts: %w", err)
	}
	return &page, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, idPath("/api/products", id), &p); err != nil {
		return nil, fmt.Errorf("client.GetProduct: %w", err)
	}
	return &p, nil
}

// CreateProduct creates a product.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var p domain.Product
	if err := c.post(ctx, "/api/products", in, &p); err != nil {
		return nil, fmt.Errorf("client.CreateProduct: %w", err)
	}
	return &p, nil
}

// UpdateProduct replaces a product.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	var p domain.Product
	if err := c.put(ctx, idPath("/api/products", id), in, &p); err != nil {
		return nil, fmt.Errorf("client.UpdateProduct: %w", err)
	}
	return &p, nil
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.delete(ctx, idPath("/api/products", id)); err != nil {
		return fmt.Errorf("client.DeleteProduct: %w", err)
	}
	return nil
}

// SetProductActive toggles only the active flag of a product.
func (c *Client) SetProductActive(ctx context.Context, id int64, active bool) error {
	params := url.Values{}
	params.Set("active", strconv.FormatBool(active))
	if err := c.doRequest(ctx, http.MethodPatch, withQuery(idPath("/api/products", id)+"/active", params), nil, nil); err != nil {
		return fmt.Errorf("client.SetProductActive: %w", err)
	}
	return nil
}

// --- Authors ---

// ListAuthors returns all authors.
func (c *Client) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	var authors []domain.Author
	if err := c.get(ctx, "/api/authors", &authors); err != nil {
		return nil, fmt.Errorf("client.ListAuthors: %w", err)
	}
	return authors, nil
}

// GetAuthor fetches a single author.
func (c *Client) GetAuthor(ctx context.Context, id int64) (*domain.Author, error) {
	var a domain.Author
	if err := c.get(ctx, idPath("/api/authors", id), &a); err != nil {
		return nil, fmt.Errorf("client.GetAuthor: %w", err)
	}
	return &a, nil
}

// CreateAuthor creates an author.
func (c *Client) CreateAuthor(ctx context.Context, a domain.Author) (*domain.Author, error) {
	var created domain.Author
	if err := c.post(ctx, "/api/authors", a, &created); err != nil {
		return nil, fmt.Errorf("client.CreateAuthor: %w", err)
	}
	return &created, nil
}

// UpdateAuthor replaces an author.
func (c *Client) UpdateAuthor(ctx context.Context, id int64, a domain.Author) (*domain.Author, error) {
	var updated domain.Author
	if err := c.put(ctx, idPath("/api/authors", id), a, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateAuthor: %w", err)
	}
	return &updated, nil
}

// DeleteAuthor deletes an author.
func (c *Client) DeleteAuthor(ctx context.Context, id int64) error {
	if err := c.delete(ctx, idPath("/api/authors", id)); err != nil {
		return fmt.Errorf("client.DeleteAuthor: %w", err)
	}
	return nil
}

// --- Categories ---

// ListCategories returns all categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.get(ctx, "/api/categories", &categories); err != nil {
		return nil, fmt.Errorf("client.ListCategories: %w", err)
	}
	return categories, nil
}

// GetCategory fetches a single category.
func (c *Client) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var cat domain.Category
	if err := c.get(ctx, idPath("/api/categories", id), &cat); err != nil {
		return nil, fmt.Errorf("client.GetCategory: %w", err)
	}
	return &cat, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, cat domain.Category) (*domain.Category, error) {
	var created domain.Category
	if err := c.post(ctx, "/api/categories", cat, &created); err != nil {
		return nil, fmt.Errorf("client.CreateCategory: %w", err)
	}
	return &created, nil
}

// UpdateCategory replaces a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, cat domain.Category) (*domain.Category, error) {
	var updated domain.Category
	if err := c.put(ctx, idPath("/api/categories", id), cat, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateCategory: %w", err)
	}
	return &updated, nil
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	if err := c.delete(ctx, idPath("/api/categories", id)); err != nil {
		return fmt.Errorf("client.DeleteCategory: %w", err)
	}
	return nil
}

// --- Editorials ---

// ListEditorials returns all editorials.
func (c *Client) ListEditorials(ctx context.Context) ([]domain.Editorial, error) {
	var editorials []domain.Editorial
	if err := c.get(ctx, "/api/editorials", &editorials); err != nil {
		return nil, fmt.Errorf("client.ListEditorials: %w", err)
	}
	return editorials, nil
}

// GetEditorial fetches a single editorial.
func (c *Client) GetEditorial(ctx context.Context, id int64) (*domain.Editorial, error) {
	var e domain.Editorial
	if err := c.get(ctx, idPath("/api/editorials", id), &e); err != nil {
		return nil, fmt.Errorf("client.GetEditorial: %w", err)
	}
	return &e, nil
}

// CreateEditorial creates an editorial.
func (c *Client) CreateEditorial(ctx context.Context, e domain.Editorial) (*domain.Editorial, error) {
	var created domain.Editorial
	if err := c.post(ctx, "/api/editorials", e, &created); err != nil {
		return nil, fmt.Errorf("client.CreateEditorial: %w", err)
	}
	return &created, nil
}

// UpdateEditorial replaces an editorial.
func (c *Client) UpdateEditorial(ctx context.Context, id int64, e domain.Editorial) (*domain.Editorial, error) {
	var updated domain.Editorial
	if err := c.put(ctx, idPath("/api/editorials", id), e, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateEditorial: %w", err)
	}
	return &updated, nil
}

// DeleteEditorial deletes an editorial.
func (c *Client) DeleteEditorial(ctx context.Context, id int64) error {
	if err := c.delete(ctx, idPath("/api/editorials", id)); err != nil {
		return fmt.Errorf("client.DeleteEditorial: %w", err)
	}
	return nil
}
