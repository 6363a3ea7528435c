package main

import (
	"context"
	"log"
	"net/mail"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/makazi/apps/api/echo"
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
	"github.com/trezcool/makazi/services/email"
	"github.com/trezcool/makazi/services/logger"
	"github.com/trezcool/makazi/storage/database"
	"github.com/trezcool/makazi/storage/database/sqlx"
)

// studentDirectory adapts user.Service for packages that only need to
// resolve a student's mailing address.
type studentDirectory struct {
	usrSvc user.Service
}

var _ leave.StudentDirectory = (*studentDirectory)(nil)

func (d studentDirectory) GetStudentAddress(ctx context.Context, studentID string) (mail.Address, error) {
	usr, err := d.usrSvc.GetByID(ctx, studentID)
	if err != nil {
		return mail.Address{}, err
	}
	return mail.Address{Name: usr.Name, Address: usr.Email}, nil
}

func main() {
	stdLogger := log.New(os.Stdout, core.Conf.AppName+" : ", log.LstdFlags|log.Lshortfile)
	appLogger := logsvc.NewRollbarLogger(stdLogger, core.Conf)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(stdLogger, err)
	defer db.Close()
	errAndDie(stdLogger, database.Migrate(db.DB))

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}

	usrRepo := sqlxrepos.NewUserRepository(db)
	chatRepo := sqlxrepos.NewChatRepository(db)
	complaintRepo := sqlxrepos.NewComplaintRepository(db)
	leaveRepo := sqlxrepos.NewLeaveRepository(db)
	laundryRepo := sqlxrepos.NewLaundryRepository(db)
	maintenanceRepo := sqlxrepos.NewMaintenanceRepository(db)
	noticeRepo := sqlxrepos.NewNoticeRepository(db)
	hostelRepo := sqlxrepos.NewHostelRepository(db)

	usrSvc := user.NewService(usrRepo, mailSvc)
	chatSvc := chat.NewService(chatRepo)
	complaintSvc := complaint.NewService(complaintRepo)
	leaveSvc := leave.NewService(leaveRepo, studentDirectory{usrSvc: usrSvc}, mailSvc)
	laundrySvc := laundry.NewService(laundryRepo)
	maintenanceSvc := maintenance.NewService(maintenanceRepo)
	noticeSvc := notice.NewService(noticeRepo)
	hostelSvc := hostel.NewService(hostelRepo)

	notifSvc := notification.NewService(
		appLogger,
		usrRepo,
		[]notification.Source{ // admin feed
			chat.NewAdminSource(chatRepo),
			complaint.NewAdminSource(complaintRepo),
			leave.NewAdminSource(leaveRepo),
			laundry.NewAdminSource(laundryRepo),
			maintenance.NewAdminSource(maintenanceRepo),
		},
		[]notification.Source{ // student feed
			chat.NewStudentSource(chatRepo),
			complaint.NewStudentSource(complaintRepo),
			leave.NewStudentSource(leaveRepo),
			maintenance.NewStudentSource(maintenanceRepo),
			notice.NewStudentSource(noticeRepo),
			hostel.NewBusSource(hostelRepo),
			hostel.NewEmergencySource(hostelRepo),
		},
	)

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:           core.Conf.Server.Addr,
			Logger:         appLogger,
			Shutdown:       shutdown,
			UserSvc:        usrSvc,
			NotifSvc:       notifSvc,
			ChatSvc:        chatSvc,
			ComplaintSvc:   complaintSvc,
			LeaveSvc:       leaveSvc,
			LaundrySvc:     laundrySvc,
			MaintenanceSvc: maintenanceSvc,
			NoticeSvc:      noticeSvc,
			HostelSvc:      hostelSvc,
		},
	)

	serverErrs := make(chan error, 1)
	go func() { serverErrs <- app.Start() }()

	select {
	case err := <-serverErrs:
		errAndDie(stdLogger, err)
	case sig := <-shutdown:
		stdLogger.Printf("%v: shutting down..", sig)

		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()

		if err := app.Stop(ctx); err != nil {
			appLogger.Error("graceful shutdown failed", err)
		}
	}
}

func errAndDie(logger *log.Logger, err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
