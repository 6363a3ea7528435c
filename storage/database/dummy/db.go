// Package dummydb provides map-backed repositories with the same semantics
// as the SQL ones. They back the API tests and local development without a
// running database.
package dummydb

import (
	"sync"

	"github.com/trezcool/makazi/core/chat"
	"github.com/trezcool/makazi/core/complaint"
	"github.com/trezcool/makazi/core/hostel"
	"github.com/trezcool/makazi/core/laundry"
	"github.com/trezcool/makazi/core/leave"
	"github.com/trezcool/makazi/core/maintenance"
	"github.com/trezcool/makazi/core/notice"
	"github.com/trezcool/makazi/core/user"
)

type (
	DB struct {
		user        *userTable
		chat        *chatTable
		complaint   *complaintTable
		leave       *leaveTable
		laundry     *laundryTable
		maintenance *maintenanceTable
		notice      *noticeTable
		hostel      *hostelTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	chatTable struct {
		sync.RWMutex
		messages      []chat.Message
		conversations map[string]*chat.Conversation
	}

	complaintTable struct {
		sync.RWMutex
		table map[string]*complaint.Complaint
	}

	leaveTable struct {
		sync.RWMutex
		table map[string]*leave.Leave
	}

	laundryTable struct {
		sync.RWMutex
		table map[string]*laundry.Request
	}

	maintenanceTable struct {
		sync.RWMutex
		table map[string]*maintenance.Request
	}

	noticeTable struct {
		sync.RWMutex
		table map[string]*notice.Notice
	}

	hostelTable struct {
		sync.RWMutex
		busTimings map[string]*hostel.BusTiming
		contacts   map[string]*hostel.EmergencyContact
	}
)

// Reset drops all rows. Tests call it to isolate themselves.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.chat.Lock()
	db.chat.messages = nil
	db.chat.conversations = make(map[string]*chat.Conversation)
	db.chat.Unlock()

	db.complaint.Lock()
	db.complaint.table = make(map[string]*complaint.Complaint)
	db.complaint.Unlock()

	db.leave.Lock()
	db.leave.table = make(map[string]*leave.Leave)
	db.leave.Unlock()

	db.laundry.Lock()
	db.laundry.table = make(map[string]*laundry.Request)
	db.laundry.Unlock()

	db.maintenance.Lock()
	db.maintenance.table = make(map[string]*maintenance.Request)
	db.maintenance.Unlock()

	db.notice.Lock()
	db.notice.table = make(map[string]*notice.Notice)
	db.notice.Unlock()

	db.hostel.Lock()
	db.hostel.busTimings = make(map[string]*hostel.BusTiming)
	db.hostel.contacts = make(map[string]*hostel.EmergencyContact)
	db.hostel.Unlock()
}

func Open() (*DB, error) {
	db := &DB{
		user:        &userTable{table: make(map[string]*user.User)},
		chat:        &chatTable{conversations: make(map[string]*chat.Conversation)},
		complaint:   &complaintTable{table: make(map[string]*complaint.Complaint)},
		leave:       &leaveTable{table: make(map[string]*leave.Leave)},
		laundry:     &laundryTable{table: make(map[string]*laundry.Request)},
		maintenance: &maintenanceTable{table: make(map[string]*maintenance.Request)},
		notice:      &noticeTable{table: make(map[string]*notice.Notice)},
		hostel: &hostelTable{
			busTimings: make(map[string]*hostel.BusTiming),
			contacts:   make(map[string]*hostel.EmergencyContact),
		},
	}
	return db, nil
}
