package httpserver

import (
	"net/http"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/service/order"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	Cart       map[string]int         `json:"cart"`
	Shipping   domain.ShippingAddress `json:"shipping"`
	GuestEmail string                 `json:"guestEmail"`
}

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	owner := domain.Owner{}
	if u := currentUser(c); u != nil {
		owner = domain.RegisteredUser(u.ID)
		// Signed-in users who send no address fall back to the one on
		// their profile.
		if (req.Shipping == domain.ShippingAddress{}) && u.AddressLine1 != "" {
			req.Shipping = domain.ShippingAddress{
				Line1:   u.AddressLine1,
				Line2:   u.AddressLine2,
				City:    u.City,
				State:   u.State,
				ZipCode: u.ZipCode,
			}
		}
	} else if req.GuestEmail != "" {
		owner = domain.Guest(req.GuestEmail)
	}

	o, err := h.deps.Orders.Create(c.Request.Context(), order.CreateInput{
		Owner:    owner,
		Cart:     req.Cart,
		Shipping: req.Shipping,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": toOrderResponse(o)})
}

func (h *handlers) getOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.deps.Orders.Get(c.Request.Context(), id, requesterIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": toOrderResponse(o)})
}

func (h *handlers) listOrders(c *gin.Context) {
	u := currentUser(c)
	orders, err := h.deps.Orders.ListByUser(c.Request.Context(), u.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": toOrderResponses(orders)})
}
