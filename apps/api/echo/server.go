package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/makazi/core"
	"github.com/trezcool/makazi/core/chat"
	"github.com/trezcool/makazi/core/complaint"
	"github.com/trezcool/makazi/core/hostel"
	"github.com/trezcool/makazi/core/laundry"
	"github.com/trezcool/makazi/core/leave"
	"github.com/trezcool/makazi/core/maintenance"
	"github.com/trezcool/makazi/core/notice"
	"github.com/trezcool/makazi/core/notification"
	"github.com/trezcool/makazi/core/user"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool
		Logger         core.Logger
		// Shutdown receives SIGTERM when an unrecoverable error is caught.
		Shutdown chan os.Signal

		UserSvc        user.Service
		NotifSvc       *notification.Service
		ChatSvc        *chat.Service
		ComplaintSvc   *complaint.Service
		LeaveSvc       *leave.Service
		LaundrySvc     *laundry.Service
		MaintenanceSvc *maintenance.Service
		NoticeSvc      *notice.Service
		HostelSvc      *hostel.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerNotificationAPI(v1, jwt, s.opts.NotifSvc)
	registerChatAPI(v1, jwt, s.opts.ChatSvc)
	registerComplaintAPI(v1, jwt, s.opts.ComplaintSvc)
	registerLeaveAPI(v1, jwt, s.opts.LeaveSvc)
	registerLaundryAPI(v1, jwt, s.opts.LaundrySvc)
	registerMaintenanceAPI(v1, jwt, s.opts.MaintenanceSvc)
	registerNoticeAPI(v1, jwt, s.opts.NoticeSvc)
	registerHostelAPI(v1, jwt, s.opts.HostelSvc)
}

// signalShutdown tells main to gracefully shut the Server down.
func (s *server) signalShutdown() {
	if s.opts.Shutdown != nil {
		s.opts.Shutdown <- syscall.SIGTERM
	}
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Makazi API!")
}
