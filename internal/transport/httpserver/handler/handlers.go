package handler

import (
	"net/http"

	familydomain "giftcircle/internal/domain/family"
	giftgroupdomain "giftcircle/internal/domain/giftgroup"
	identitydomain "giftcircle/internal/domain/identity"
	profiledomain "giftcircle/internal/domain/profile"
	wishlistdomain "giftcircle/internal/domain/wishlist"
	"giftcircle/pkg/logger"
)

// TokenIssuer mints the session token returned on login.
type TokenIssuer interface {
	Generate(userID, email string) (string, error)
}

type Handlers struct {
	Identity  *identitydomain.Service
	Families  *familydomain.Service
	Profiles  *profiledomain.Service
	Wishlists *wishlistdomain.Service
	Groups    *giftgroupdomain.Service

	tokens TokenIssuer
	log    logger.Logger
}

func New(
	identity *identitydomain.Service,
	families *familydomain.Service,
	profiles *profiledomain.Service,
	wishlists *wishlistdomain.Service,
	groups *giftgroupdomain.Service,
	tokens TokenIssuer,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Identity:  identity,
		Families:  families,
		Profiles:  profiles,
		Wishlists: wishlists,
		Groups:    groups,
		tokens:    tokens,
		log:       log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
