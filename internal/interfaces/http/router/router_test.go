package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func TestNewRouter_Defaults(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestNewRouter_WithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	portfolio := NewDomainGroup("portfolio", "/portfolio")
	portfolio.GET("/properties", okHandler("listed"))
	r.Register(portfolio).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v2/portfolio/properties", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "listed", w.Body.String())
}

func TestRouter_SetupMountsDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	portfolio := NewDomainGroup("portfolio", "/portfolio")
	portfolio.POST("/properties", okHandler("created"))
	portfolio.GET("/properties/:id", okHandler("fetched"))

	leasing := NewDomainGroup("leasing", "/leasing")
	leasing.PUT("/tenants/:id", okHandler("updated"))
	leasing.DELETE("/tenants/:id", okHandler("removed"))
	leasing.PATCH("/tenants/:id/status", okHandler("patched"))

	r.Register(portfolio).Register(leasing).Setup()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{"POST", "/api/v1/portfolio/properties", "created"},
		{"GET", "/api/v1/portfolio/properties/42", "fetched"},
		{"PUT", "/api/v1/leasing/tenants/7", "updated"},
		{"DELETE", "/api/v1/leasing/tenants/7", "removed"},
		{"PATCH", "/api/v1/leasing/tenants/7/status", "patched"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	payments := NewDomainGroup("payments", "/payments")
	payments.Use(func(c *gin.Context) {
		c.Header("X-Ledger", "propdesk")
		c.Next()
	})
	payments.GET("/receipts", okHandler("receipts"))

	r.Register(payments).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/payments/receipts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "propdesk", w.Header().Get("X-Ledger"))
}

func TestDomainGroup_NestedSubgroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	portfolio := NewDomainGroup("portfolio", "/portfolio")
	units := portfolio.Group("units", "/properties/:id/units")
	units.GET("", okHandler("units"))
	units.POST("/:unitID/claim", okHandler("claimed"))

	r.Register(portfolio).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/portfolio/properties/9/units/004/claim", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "claimed", w.Body.String())
}

func TestDomainGroup_NameAndPrefix(t *testing.T) {
	group := NewDomainGroup("occupancy", "/occupancy")

	assert.Equal(t, "occupancy", group.Name())
	assert.Equal(t, "/occupancy", group.Prefix())
}

func TestDomainGroup_UnregisteredRouteIs404(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	portfolio := NewDomainGroup("portfolio", "/portfolio")
	portfolio.GET("/properties", okHandler("listed"))
	r.Register(portfolio).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/portfolio/archive", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
