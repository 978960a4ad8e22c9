// Package domain defines the persistence models for intake requests, the
// department directory, and the registered-user directory. These types are
// mapped with GORM onto a schema that is shared with the admin panel: only
// the request tables are written by the bot, everything else is read-only
// from this side.
package domain

import "time"

// Status is the lifecycle state of a Request. A request is inserted as
// StatusNew by the bot and only ever advanced by the admin system.
type Status string

const (
	StatusNew       Status = "new"
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusRejected  Status = "rejected"
)

// Active reports whether the status counts against the one-active-request
// rule (at most one request per requester may be new or pending).
func (s Status) Active() bool { return s == StatusNew || s == StatusPending }

// Display returns the human-readable Russian label shown to requesters.
func (s Status) Display() string {
	switch s {
	case StatusNew:
		return "🆕 Новая"
	case StatusPending:
		return "⏳ Незавершена"
	case StatusProcessed:
		return "✅ Обработана"
	case StatusRejected:
		return "❌ Отклонена"
	default:
		return string(s)
	}
}

// Department is a selectable organizational unit. The table belongs to the
// admin system; the bot only reads it.
type Department struct {
	ID   int64  `json:"id"   gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"type:varchar(150);not null;uniqueIndex"`
}

// TableName returns the database table name for Department.
func (Department) TableName() string { return "auth_group" }

// GroupSetting carries the bot-facing presentation hints for a department.
// Absent rows default to visible with order 0. Read-only.
type GroupSetting struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	GroupID   int64 `gorm:"not null;uniqueIndex"`
	ShowInBot *bool `gorm:"column:show_in_bot"`
	BotOrder  *int  `gorm:"column:bot_order"`
}

// TableName returns the database table name for GroupSetting.
func (GroupSetting) TableName() string { return "s3app_groupsettings" }

// CatalogEntry is a department row joined with its display-order hint, as
// returned by the catalog query. It is a projection, not a table.
type CatalogEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	BotOrder int    `json:"-"`
}

// Request is the central entity: one submitted intake. It is created by the
// bot with StatusNew; processed_at, processed_by_id and all status
// transitions belong to the admin system.
//
// Fields:
//   - ID: auto-increment primary key assigned by the store.
//   - FullName: "Last First Middle" assembled from the form fields.
//   - TelegramID: opaque requester identity from the chat platform.
//   - Region: one of the enumerated region names, or empty.
//   - IsAdditional: request for extra departments by an already registered user.
//   - TargetUserID: the registered user an additional request extends.
//   - ActiveKey: equals TelegramID while the status is new/pending. The
//     admin system advances status without touching this column; the next
//     create releases the key from finished rows before inserting. The
//     unique index on it closes the create/create race: two concurrent
//     submissions cannot both insert an active row.
type Request struct {
	ID            int64      `json:"id"            gorm:"primaryKey;autoIncrement"`
	FullName      string     `json:"full_name"     gorm:"type:varchar(255);not null"`
	TelegramID    string     `json:"telegram_id"   gorm:"type:varchar(64);not null;index:idx_request_identity"`
	Region        string     `json:"region"        gorm:"type:varchar(100);not null;default:''"`
	IsAdditional  bool       `json:"is_additional" gorm:"not null;default:false"`
	TargetUserID  *int64     `json:"target_user_id,omitempty"`
	Status        Status     `json:"status"        gorm:"type:varchar(16);not null;check:status IN ('new','pending','processed','rejected')"`
	ActiveKey     *string    `json:"-"             gorm:"type:varchar(64);uniqueIndex:ux_request_active"`
	CreatedAt     time.Time  `json:"created_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	ProcessedByID *int64     `json:"processed_by_id,omitempty"`

	// Department name lists loaded alongside the row; not columns.
	Departments          []string `json:"departments"           gorm:"-"`
	ProcessedDepartments []string `json:"processed_departments" gorm:"-"`
}

// TableName returns the database table name for Request.
func (Request) TableName() string { return "s3app_userrequest" }

// RequestDepartment links a request to a requested department. The composite
// primary key makes a duplicate link a constraint conflict instead of a new
// row, which the repo turns into a no-op.
type RequestDepartment struct {
	RequestID int64 `gorm:"primaryKey;column:userrequest_id;autoIncrement:false"`
	GroupID   int64 `gorm:"primaryKey;column:group_id;autoIncrement:false"`
}

// TableName returns the database table name for RequestDepartment.
func (RequestDepartment) TableName() string { return "s3app_userrequest_departments" }

// RequestProcessedDepartment links a request to a department the admin side
// has already confirmed. Read-only here.
type RequestProcessedDepartment struct {
	RequestID int64 `gorm:"primaryKey;column:userrequest_id;autoIncrement:false"`
	GroupID   int64 `gorm:"primaryKey;column:group_id;autoIncrement:false"`
}

// TableName returns the database table name for RequestProcessedDepartment.
func (RequestProcessedDepartment) TableName() string {
	return "s3app_userrequest_processed_departments"
}

// DirectoryUser is a registered person in the admin directory, matched to a
// requester by Telegram identity. Read-only.
type DirectoryUser struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	FirstName  string `gorm:"type:varchar(150)"`
	LastName   string `gorm:"type:varchar(150)"`
	MiddleName string `gorm:"type:varchar(150)"`
	Region     string `gorm:"type:varchar(100)"`
	Email      string `gorm:"type:varchar(254)"`
	TelegramID string `gorm:"type:varchar(64);index"`

	// Currently assigned department names; loaded separately.
	Departments []string `gorm:"-"`
}

// TableName returns the database table name for DirectoryUser.
func (DirectoryUser) TableName() string { return "s3app_user" }

// DirectoryUserGroup links a registered user to an assigned department.
// Read-only.
type DirectoryUserGroup struct {
	UserID  int64 `gorm:"primaryKey;column:user_id;autoIncrement:false"`
	GroupID int64 `gorm:"primaryKey;column:group_id;autoIncrement:false"`
}

// TableName returns the database table name for DirectoryUserGroup.
func (DirectoryUserGroup) TableName() string { return "s3app_user_groups" }
