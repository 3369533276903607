package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 認証と、ログイン時のゲスト状態マージ
type AuthHandler struct {
	auth      *usecase.AuthUsecase
	cart      *usecase.CartUsecase
	favorites *usecase.FavoriteUsecase
	log       *zap.Logger
}

func NewAuthHandler(
	auth *usecase.AuthUsecase,
	cart *usecase.CartUsecase,
	favorites *usecase.FavoriteUsecase,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{auth: auth, cart: cart, favorites: favorites, log: log}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/register", h.register)
	e.POST("/auth/login", h.login)
}

// ログインリクエストにはゲスト時のカート・お気に入りを同梱できる。
// 認証成功後にDBへマージし、クライアントはローカル側を破棄する。
type loginRequest struct {
	usecase.LoginInput
	GuestCart      []model.GuestCartItem `json:"guest_cart"`
	GuestFavorites []int64               `json:"guest_favorites"`
}

func (h *AuthHandler) register(c echo.Context) error {
	var in usecase.RegisterInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.auth.Register(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ctx := c.Request().Context()

	out, err := h.auth.Login(ctx, req.LoginInput)
	if err != nil {
		return writeError(c, err)
	}

	// マージ失敗でログイン自体は落とさない
	if len(req.GuestCart) > 0 {
		if err := h.cart.MergeGuestCart(ctx, out.User.ID, req.GuestCart); err != nil {
			h.log.Warn("guest cart merge failed", zap.Int64("user_id", out.User.ID), zap.Error(err))
		}
	}
	if len(req.GuestFavorites) > 0 {
		if err := h.favorites.MergeGuestFavorites(ctx, out.User.ID, req.GuestFavorites); err != nil {
			h.log.Warn("guest favorites merge failed", zap.Int64("user_id", out.User.ID), zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, out)
}
