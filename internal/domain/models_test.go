package domain

import "testing"

func TestStatusActive(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusNew, true},
		{StatusPending, true},
		{StatusProcessed, false},
		{StatusRejected, false},
		{Status("garbage"), false},
	}
	for _, c := range cases {
		if got := c.status.Active(); got != c.want {
			t.Errorf("%q.Active() = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestStatusDisplay_CoversAllStates(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusPending, StatusProcessed, StatusRejected} {
		if s.Display() == "" {
			t.Errorf("%q has no display label", s)
		}
	}
	if Status("garbage").Display() == "" {
		t.Error("unknown status has no fallback label")
	}
}

func TestCreateOutcomeString(t *testing.T) {
	cases := map[CreateOutcome]string{
		OutcomeCreated:          "created",
		OutcomeAlreadyActive:    "already_active",
		OutcomeAlreadyProcessed: "already_processed",
		CreateOutcome(99):       "unknown",
	}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", o, got, want)
		}
	}
}

func TestTableNames(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{Department{}.TableName(), "auth_group"},
		{GroupSetting{}.TableName(), "s3app_groupsettings"},
		{DirectoryUser{}.TableName(), "s3app_user"},
		{DirectoryUserGroup{}.TableName(), "s3app_user_groups"},
		{Request{}.TableName(), "s3app_userrequest"},
		{RequestDepartment{}.TableName(), "s3app_userrequest_departments"},
		{RequestProcessedDepartment{}.TableName(), "s3app_userrequest_processed_departments"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("table name %q, want %q", c.got, c.want)
		}
	}
}
