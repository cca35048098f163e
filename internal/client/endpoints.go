package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/domain/user"
	"github.com/example/ec-storefront/internal/domain/wishlist"
)

// AuthResponse is the body of a successful login or signup.
type AuthResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type addToCartRequest struct {
	Quantity int `json:"quantity"`
}

// LikesResponse is the body returned by the like endpoint.
type LikesResponse struct {
	Likes int64 `json:"likes"`
}

// RecentSearch is a query stored by the remote service.
type RecentSearch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FilterParams narrows the product filter endpoint. Zero values are omitted.
type FilterParams struct {
	Query    string
	Size     string
	Color    string
	MinPrice int64
	MaxPrice int64
	Sort     string
}

func (p FilterParams) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("q", p.Query)
	set("size", p.Size)
	set("color", p.Color)
	if p.MinPrice > 0 {
		v.Set("min_price", strconv.FormatInt(p.MinPrice, 10))
	}
	if p.MaxPrice > 0 {
		v.Set("max_price", strconv.FormatInt(p.MaxPrice, 10))
	}
	set("sort", p.Sort)
	return v
}

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10) + "/"
}

// Products

func (c *Client) GetProducts(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.get(ctx, "/products/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	var out catalog.Product
	err := c.get(ctx, idPath("/products/", id), &out)
	return out, err
}

func (c *Client) ProductsByType(ctx context.Context, typeName string) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.get(ctx, "/types/"+url.PathEscape(typeName)+"/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.get(ctx, "/search/input/"+url.PathEscape(query)+"/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Filter(ctx context.Context, params FilterParams) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.get(ctx, "/products/filter/?"+params.values().Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Autocomplete(ctx context.Context, query string) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/autocomplete/?"+url.Values{"q": {query}}.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProductTypes(ctx context.Context) ([]catalog.ProductType, error) {
	var out []catalog.ProductType
	if err := c.get(ctx, "/ipcontent/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) LikeProduct(ctx context.Context, id int64) (int64, error) {
	var out LikesResponse
	if err := c.get(ctx, idPath("/product/like/", id), &out); err != nil {
		return 0, err
	}
	return out.Likes, nil
}

func (c *Client) RateProduct(ctx context.Context, id int64, rating int) error {
	form := url.Values{
		"rates": {strconv.Itoa(rating)},
		"id":    {strconv.FormatInt(id, 10)},
	}
	return c.postForm(ctx, "/product/rate/", form, nil)
}

func (c *Client) RecentSearches(ctx context.Context) ([]RecentSearch, error) {
	var out []RecentSearch
	if err := c.get(ctx, "/recents/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddRecentSearch(ctx context.Context, query string) error {
	return c.get(ctx, "/recent/"+url.PathEscape(query)+"/", nil)
}

// Auth

func (c *Client) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.postJSON(ctx, "/login/", loginRequest{Username: username, Password: password}, &out)
	return out, err
}

func (c *Client) Signup(ctx context.Context, username, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.postJSON(ctx, "/signup/", signupRequest{Username: username, Email: email, Password: password}, &out)
	return out, err
}

// Logout has no remote endpoint; the token is discarded by the caller.
func (c *Client) Logout(ctx context.Context) error {
	return ctx.Err()
}

// Cart

func (c *Client) GetCart(ctx context.Context) ([]cart.Line, error) {
	var out []cart.Line
	if err := c.get(ctx, "/cart/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) (cart.Line, error) {
	var out cart.Line
	err := c.postJSON(ctx, idPath("/cart/add/", productID), addToCartRequest{Quantity: quantity}, &out)
	return out, err
}

// Wishlist

func (c *Client) GetWishlist(ctx context.Context) ([]wishlist.Entry, error) {
	var out []wishlist.Entry
	if err := c.get(ctx, "/wishlist/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToWishlist(ctx context.Context, productID int64) error {
	return c.postJSON(ctx, idPath("/wishlist/add/", productID), nil, nil)
}
