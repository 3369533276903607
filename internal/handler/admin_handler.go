package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/config"
	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理API。全ルートがAuthJWT＋AdminRoleGuardの下。
type AdminHandler struct {
	products   *usecase.AdminProductUsecase
	categories *usecase.AdminCategoryUsecase
	orders     *usecase.AdminOrderUsecase
	users      *usecase.AdminUserUsecase
}

func NewAdminHandler(
	products *usecase.AdminProductUsecase,
	categories *usecase.AdminCategoryUsecase,
	orders *usecase.AdminOrderUsecase,
	users *usecase.AdminUserUsecase,
) *AdminHandler {
	return &AdminHandler{
		products:   products,
		categories: categories,
		orders:     orders,
		users:      users,
	}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg), middleware.AdminRoleGuard())

	g.POST("/products", h.createProduct)
	g.PUT("/products/:slug", h.updateProduct)
	g.DELETE("/products/:slug", h.deleteProduct)
	g.PUT("/products/:slug/stock", h.setStock)

	g.POST("/categories", h.createCategory)
	g.PUT("/categories/:slug", h.updateCategory)
	g.DELETE("/categories/:slug", h.deleteCategory)
	g.POST("/subcategories", h.createSubCategory)
	g.PUT("/subcategories/:slug", h.updateSubCategory)
	g.DELETE("/subcategories/:slug", h.deleteSubCategory)

	g.GET("/orders", h.listOrders)
	g.PUT("/orders/:id/status", h.updateOrderStatus)

	g.GET("/users", h.listUsers)
}

func (h *AdminHandler) createProduct(c echo.Context) error {
	var in usecase.CreateProductInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.products.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) updateProduct(c echo.Context) error {
	var in usecase.UpdateProductInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.products.Update(c.Request().Context(), c.Param("slug"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) deleteProduct(c echo.Context) error {
	if err := h.products.Delete(c.Request().Context(), c.Param("slug")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) setStock(c echo.Context) error {
	var in usecase.SetStockInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.products.SetStock(c.Request().Context(), c.Param("slug"), in); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) createCategory(c echo.Context) error {
	var in usecase.CategoryInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.categories.CreateCategory(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) updateCategory(c echo.Context) error {
	var in usecase.CategoryInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.categories.UpdateCategory(c.Request().Context(), c.Param("slug"), in); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) deleteCategory(c echo.Context) error {
	if err := h.categories.DeleteCategory(c.Request().Context(), c.Param("slug")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) createSubCategory(c echo.Context) error {
	var in usecase.SubCategoryInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.categories.CreateSubCategory(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) updateSubCategory(c echo.Context) error {
	var in usecase.SubCategoryInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.categories.UpdateSubCategory(c.Request().Context(), c.Param("slug"), in); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) deleteSubCategory(c echo.Context) error {
	if err := h.categories.DeleteSubCategory(c.Request().Context(), c.Param("slug")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) listOrders(c echo.Context) error {
	f := repo.AdminOrderListFilter{
		Status: c.QueryParam("status"),
	}
	if v := c.QueryParam("page"); v != "" {
		f.Page, _ = strconv.Atoi(v)
	}
	if v := c.QueryParam("limit"); v != "" {
		f.Limit, _ = strconv.Atoi(v)
	}
	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		f.UserID = &id
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		f.To = &t
	}

	out, err := h.orders.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) updateOrderStatus(c echo.Context) error {
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var in usecase.AdminUpdateOrderStatusInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.orders.UpdateStatus(c.Request().Context(), orderID, in); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) listUsers(c echo.Context) error {
	page := 1
	limit := 50
	if v := c.QueryParam("page"); v != "" {
		page, _ = strconv.Atoi(v)
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	out, err := h.users.List(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
