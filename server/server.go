// Package server exposes busy intervals, free slots and meeting
// scheduling over HTTP.
package server

import (
	goerrors "github.com/TudorHulban/go-errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/openclaw/availability"
	"github.com/openclaw/availability/meetings"
	"github.com/openclaw/availability/store"
	"go.uber.org/zap"
)

type Server struct {
	router    *gin.Engine
	store     *store.Store
	source    availability.Source
	scheduler *meetings.Scheduler
	cache     *BusyCache
	logger    *zap.Logger
}

type ParamsNewServer struct {
	Store  *store.Store
	Source availability.Source

	// Scheduler nil disables meeting booking, Cache nil disables the
	// busy cache.
	Scheduler *meetings.Scheduler
	Cache     *BusyCache
	Logger    *zap.Logger
}

func (params *ParamsNewServer) IsValid() error {
	if params.Store == nil {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsNewServer",
			Issue: goerrors.ErrNilInput{
				InputName: "Store",
			},
		}
	}

	if params.Source == nil {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsNewServer",
			Issue: goerrors.ErrNilInput{
				InputName: "Source",
			},
		}
	}

	return nil
}

func New(params *ParamsNewServer) (*Server, error) {
	if errValidation := params.IsValid(); errValidation != nil {
		return nil,
			errValidation
	}

	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := Server{
		router:    gin.New(),
		store:     params.Store,
		source:    params.Source,
		scheduler: params.Scheduler,
		cache:     params.Cache,
		logger:    logger,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	s.registerRoutes()

	return &s, nil
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/busy", s.handleBusy)
		api.GET("/free-slots", s.handleFreeSlots)
		api.GET("/events", s.handleListEvents)
		api.POST("/events", s.handleCreateEvent)
		api.DELETE("/events/:uid", s.handleDeleteEvent)
		api.POST("/meetings", s.handleScheduleMeeting)
		api.GET("/bookings", s.handleListBookings)
	}
}

// Router exposes the gin engine for serving and for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
