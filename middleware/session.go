package middleware

import (
	"encoding/json"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// SessionStore backs the shopping cart. Cookie-based, in-memory
// storage; the cart is disposable state.
var SessionStore = session.New(session.Config{
	KeyLookup:      "cookie:lms_session",
	CookieHTTPOnly: true,
})

const cartSessionKey = "cart"

// LoadCart reads the cart value object out of the request session.
// Always returns a usable cart, empty when nothing is stored.
func LoadCart(c *fiber.Ctx) (models.Cart, error) {
	sess, err := SessionStore.Get(c)
	if err != nil {
		return models.Cart{}, err
	}

	raw, _ := sess.Get(cartSessionKey).(string)
	if raw == "" {
		return models.Cart{}, nil
	}

	cart := models.Cart{}
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		// A corrupted cart starts over rather than wedging the session.
		return models.Cart{}, nil
	}
	return cart, nil
}

// SaveCart writes the cart back into the session.
func SaveCart(c *fiber.Ctx, cart models.Cart) error {
	sess, err := SessionStore.Get(c)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	sess.Set(cartSessionKey, string(raw))
	return sess.Save()
}
