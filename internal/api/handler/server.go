package handler

type Server struct {
	CheckoutHandler *CheckoutHandler
	CartHandler     *CartHandler
	ProductHandler  *ProductHandler
}

func NewServer(checkoutHandler *CheckoutHandler, cartHandler *CartHandler, productHandler *ProductHandler) *Server {
	return &Server{
		CheckoutHandler: checkoutHandler,
		CartHandler:     cartHandler,
		ProductHandler:  productHandler,
	}
}
