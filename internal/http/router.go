package api

import (
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"boardgamelist/internal/auth"
	"boardgamelist/internal/cache"
	intconfig "boardgamelist/internal/config"
	"boardgamelist/internal/domain"
	"boardgamelist/internal/domain/models"
	h "boardgamelist/internal/http/handlers"
	"boardgamelist/internal/http/middleware"
	"boardgamelist/internal/obs"
	"boardgamelist/internal/services"
	"boardgamelist/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Env        intconfig.Env
	BoardGames domain.RecordStore[models.BoardGame]
	Mechanics  domain.RecordStore[models.Mechanic]
	Users      services.UserStore
	Cache      *cache.PageCache
	Tokens     *auth.TokenService
	Policies   *auth.Registry
	// Nil disables rate limiting.
	Limiter *middleware.RateLimiter
	Now     func() time.Time
}

var tagNameOnce sync.Once

// useJSONFieldNames makes validation errors report the JSON field name.
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

func NewRouter(d Deps) *gin.Engine {
	obs.Init()
	useJSONFieldNames()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), obs.Instrument(), middleware.Recovery(), middleware.CORS(d.Env.CORSAllowedOrigins))
	if d.Limiter != nil {
		r.Use(d.Limiter.Handler())
	}
	r.Use(middleware.Authenticate(d.Tokens))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Log.WithError(err).Warn("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "route not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	r.GET("/health", h.Health)
	r.GET("/db-check", h.DBCheck(d.BoardGames))
	r.GET("/metrics", gin.WrapH(obs.Handler()))

	noCache := middleware.CacheProfile(middleware.CacheNone)
	r.GET("/error/test", noCache, h.ErrorTest)
	r.GET("/cod/test", noCache, h.CodTest)

	boardGames := h.Catalog[models.BoardGame, models.BoardGameListItem, models.BoardGamePatch]{
		Schema:      models.BoardGameSchema,
		Store:       d.BoardGames,
		Lister:      services.Lister[models.BoardGame]{Source: d.BoardGames, Cache: d.Cache, TTL: d.Env.ListCacheTTL},
		Project:     models.BoardGame.ToListItem,
		MaxPageSize: d.Env.MaxPageSize,
		Now:         d.Now,
	}
	mountCatalog(r, "/BoardGames", d.Policies, boardGames.List, boardGames.Update, boardGames.Delete)

	mechanics := h.Catalog[models.Mechanic, models.Mechanic, models.MechanicPatch]{
		Schema:      models.MechanicSchema,
		Store:       d.Mechanics,
		Lister:      services.Lister[models.Mechanic]{Source: d.Mechanics, Cache: d.Cache, TTL: d.Env.ListCacheTTL},
		Project:     func(m models.Mechanic) models.Mechanic { return m },
		MaxPageSize: d.Env.MaxPageSize,
		Now:         d.Now,
	}
	mountCatalog(r, "/Mechanics", d.Policies, mechanics.List, mechanics.Update, mechanics.Delete)

	account := h.Account{Users: d.Users, Tokens: d.Tokens}
	acc := r.Group("/Account", noCache)
	acc.POST("/Register", account.Register)
	acc.POST("/Login", account.Login)

	return r
}

// mountCatalog registers the three catalog verbs on path. Policy gates run before the
// handler, so denied requests never reach the store.
func mountCatalog(r *gin.Engine, path string, policies *auth.Registry, list, update, del gin.HandlerFunc) {
	r.GET(path, middleware.CacheProfile(middleware.CacheAny60), list)
	r.POST(path, middleware.CacheProfile(middleware.CacheNone), middleware.RequirePolicy(policies, auth.PolicyModerator), update)
	r.DELETE(path, middleware.CacheProfile(middleware.CacheNone), middleware.RequirePolicy(policies, auth.PolicyAdministrator), del)
}
