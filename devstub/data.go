package devstub

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/indiriim/go-notify-admin/platform"
	"github.com/indiriim/go-notify-admin/roles"
	"github.com/indiriim/go-notify-admin/session"
)

// Demo accounts, one per capability tier. Passwords are hashed at load
// time; MinCost keeps stub startup and test runs fast.
func demoAccounts() map[string]account {
	return map[string]account{
		"admin@indiriim.com": {
			user:         session.User{ID: 1, Name: "Deniz Yilmaz", Email: "admin@indiriim.com", Role: roles.Admin},
			passwordHash: hashPassword("admin123"),
		},
		"manager@indiriim.com": {
			user:         session.User{ID: 2, Name: "Elif Kaya", Email: "manager@indiriim.com", Role: roles.MarketingManager},
			passwordHash: hashPassword("manager123"),
		},
		"staff@indiriim.com": {
			user:         session.User{ID: 3, Name: "Mert Demir", Email: "staff@indiriim.com", Role: roles.MarketingStaff},
			passwordHash: hashPassword("staff123"),
		},
		"viewer@indiriim.com": {
			user:         session.User{ID: 4, Name: "Ayse Celik", Email: "viewer@indiriim.com", Role: roles.ReadOnly},
			passwordHash: hashPassword("viewer123"),
		},
	}
}

func hashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

func strptr(s string) *string { return &s }

func (s *Server) loadFixtures() {
	s.segments = []platform.Segment{
		{ID: 1, Name: "All customers", Type: platform.SegmentB2C, Size: 125000, IsActive: true},
		{ID: 2, Name: "VIP customers", Description: "Top spenders, last 90 days", Type: platform.SegmentB2C, Size: 4200, IsActive: true},
		{ID: 3, Name: "Wholesale partners", Type: platform.SegmentB2B, Size: 310, IsActive: true},
	}
	s.templates = []platform.Template{
		{ID: 4, Name: "Welcome email", Type: platform.TemplateEmail, Subject: "Welcome to indiriim!", Content: "<p>Glad to have you.</p>", IsActive: true},
		{ID: 5, Name: "Flash sale SMS", Type: platform.TemplateSMS, Content: "24h flash sale starts now", IsActive: true},
		{ID: 6, Name: "Cart reminder push", Type: platform.TemplatePush, Content: "You left something behind", IsActive: false},
	}
	s.notifications = []platform.Notification{
		{ID: 7, Name: "Spring campaign", Channel: platform.ChannelEmail, Status: platform.StatusSent, SegmentName: "All customers"},
		{ID: 8, Name: "VIP preview", Channel: platform.ChannelEmail, Status: platform.StatusScheduled, ScheduledAt: strptr("2026-09-05T09:00:00Z"), SegmentName: "VIP customers"},
		{ID: 9, Name: "Weekend flash sale", Channel: platform.ChannelSMS, Status: platform.StatusDraft, SegmentName: "All customers"},
	}
	s.automations = []platform.Automation{
		{ID: 10, Name: "Cart recovery", Trigger: "CART_ABANDONED", Status: platform.AutomationActive,
			Stats: &platform.AutomationStats{Triggered: 1840, Completed: 612}, LastRun: "2026-08-29T18:40:00Z"},
		{ID: 11, Name: "Birthday greeting", Trigger: "CUSTOMER_BIRTHDAY", Status: platform.AutomationPaused,
			Stats: &platform.AutomationStats{Triggered: 95, Completed: 95}},
		{ID: 12, Name: "Win-back series", Trigger: "INACTIVE_60_DAYS", Status: platform.AutomationDraft},
	}
	s.settings = platform.Settings{
		Email: &platform.EmailSettings{
			SenderName:      "indiriim",
			SenderEmail:     "no-reply@indiriim.com",
			ServiceProvider: "ses",
		},
		SMS:  &platform.SMSSettings{Provider: "netgsm", Originator: "INDIRIIM"},
		Push: &platform.PushSettings{Provider: "fcm"},
		FallbackRules: []platform.FallbackRule{
			{ID: 1, Trigger: "EMAIL_BOUNCED", Action: "SEND_SMS", Enabled: true},
		},
		Distribution: &platform.DistributionSettings{RetryCount: 3, RetryDelay: 60, SmartRouting: true},
	}
	s.nextID = 12
}
