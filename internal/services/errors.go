package services

import "errors"

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrItemNotFound       = errors.New("item not found in cart")
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrUnauthenticated    = errors.New("login required to checkout")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrSubmissionFailed   = errors.New("order submission failed")
)
