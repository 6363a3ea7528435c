package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"os"
	"reflect"
	"testing"

	. "github.com/trezcool/makazi/apps/api/echo"
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
	"github.com/trezcool/makazi/storage/database/dummy"
)

var (
	db      *dummydb.DB
	app     Server
	usrRepo user.Repository

	chatSvc        *chat.Service
	complaintSvc   *complaint.Service
	leaveSvc       *leave.Service
	laundrySvc     *laundry.Service
	maintenanceSvc *maintenance.Service
	noticeSvc      *notice.Service
	hostelSvc      *hostel.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

type studentDirectoryStub struct{}

func (studentDirectoryStub) GetStudentAddress(ctx context.Context, studentID string) (mail.Address, error) {
	return mail.Address{Name: "Student", Address: studentID + "@test.cd"}, nil
}

func TestMain(m *testing.M) {
	core.Conf.Debug = false
	core.Conf.TestMode = true

	// set up DB & repos
	var err error
	if db, err = dummydb.Open(); err != nil {
		log.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	chatRepo := dummydb.NewChatRepository(db)
	complaintRepo := dummydb.NewComplaintRepository(db)
	leaveRepo := dummydb.NewLeaveRepository(db)
	laundryRepo := dummydb.NewLaundryRepository(db)
	maintenanceRepo := dummydb.NewMaintenanceRepository(db)
	noticeRepo := dummydb.NewNoticeRepository(db)
	hostelRepo := dummydb.NewHostelRepository(db)

	// set up services
	logger := logsvc.NewConsoleLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewServiceMock(usrRepo, mailSvc)
	chatSvc = chat.NewService(chatRepo)
	complaintSvc = complaint.NewService(complaintRepo)
	leaveSvc = leave.NewService(leaveRepo, studentDirectoryStub{}, mailSvc)
	laundrySvc = laundry.NewService(laundryRepo)
	maintenanceSvc = maintenance.NewService(maintenanceRepo)
	noticeSvc = notice.NewService(noticeRepo)
	hostelSvc = hostel.NewService(hostelRepo)

	notifSvc := notification.NewService(
		logger,
		usrRepo,
		[]notification.Source{
			chat.NewAdminSource(chatRepo),
			complaint.NewAdminSource(complaintRepo),
			leave.NewAdminSource(leaveRepo),
			laundry.NewAdminSource(laundryRepo),
			maintenance.NewAdminSource(maintenanceRepo),
		},
		[]notification.Source{
			chat.NewStudentSource(chatRepo),
			complaint.NewStudentSource(complaintRepo),
			leave.NewStudentSource(leaveRepo),
			maintenance.NewStudentSource(maintenanceRepo),
			notice.NewStudentSource(noticeRepo),
			hostel.NewBusSource(hostelRepo),
			hostel.NewEmergencySource(hostelRepo),
		},
	)

	// set up server
	app = NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logger,
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

	os.Exit(m.Run())
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func feedIDs(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("feed request failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var events []notification.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("decoding feed: %v", err)
	}
	ids := make([]string, len(events))
	for i, evt := range events {
		ids[i] = evt.ID
	}
	return ids
}
