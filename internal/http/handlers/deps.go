package handlers

import (
	"organicfoods/internal/cart"
	"organicfoods/internal/catalog"
	"organicfoods/internal/checkout"
)

type Deps struct {
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
}

func NewDeps(src catalog.Source, sessions *cart.Sessions, flow *checkout.Flow) *Deps {
	return &Deps{
		ProductHandler:  &ProductHandler{Catalog: src},
		CartHandler:     &CartHandler{Sessions: sessions, Catalog: src},
		CheckoutHandler: &CheckoutHandler{Sessions: sessions, Flow: flow},
	}
}
