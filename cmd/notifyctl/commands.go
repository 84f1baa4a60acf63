package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	errs "github.com/indiriim/go-notify-admin/internal/errors"
	"github.com/indiriim/go-notify-admin/platform"
	"github.com/indiriim/go-notify-admin/roles"
	"github.com/indiriim/go-notify-admin/session"
)

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}

	creds, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s <%s> (%s, %s)\n",
		creds.User.Name, creds.User.Email, creds.User.Role, tierName(creds.User.Role))
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	u := sess.User
	fmt.Printf("%s <%s>\n", u.Name, u.Email)
	fmt.Printf("  role:        %s (%s)\n", u.Role, tierName(u.Role))
	fmt.Printf("  last active: %s\n", sess.LastActivity().Format("2006-01-02 15:04:05"))
	return nil
}

func (a *app) cmdDashboard(ctx context.Context) error {
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}
	summary, err := a.platform.FetchDashboardSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Drafts: %d  Scheduled: %d  Sent: %d\n",
		summary.DraftCount, summary.ScheduledCount, summary.SentCount)
	if len(summary.LastNotifications) > 0 {
		fmt.Println("Recent campaigns:")
		for _, n := range summary.LastNotifications {
			fmt.Printf("  #%-4d %-24s %-6s %s\n", n.ID, n.Name, n.Channel, n.Status)
		}
	}
	return nil
}

func (a *app) cmdNotifications(ctx context.Context, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "list", "":
		fs := flag.NewFlagSet("notifications list", flag.ContinueOnError)
		status := fs.String("status", "", "filter by status")
		page := fs.Int("page", 0, "page number")
		size := fs.Int("size", 0, "page size")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if _, err := a.requireSession(ctx); err != nil {
			return err
		}
		items, err := a.platform.ListNotifications(ctx, platform.NotificationListParams{
			Page: *page, Size: *size, Status: platform.NotificationStatus(*status),
		})
		if err != nil {
			return err
		}
		for _, n := range items {
			scheduled := "-"
			if n.ScheduledAt != nil {
				scheduled = *n.ScheduledAt
			}
			fmt.Printf("#%-4d %-24s %-6s %-18s %-22s %s\n", n.ID, n.Name, n.Channel, n.Status, scheduled, n.SegmentName)
		}
		return nil

	case "create":
		fs := flag.NewFlagSet("notifications create", flag.ContinueOnError)
		name := fs.String("name", "", "campaign name")
		templateID := fs.Int64("template", 0, "template id")
		segmentID := fs.Int64("segment", 0, "segment id")
		channel := fs.String("channel", "EMAIL", "EMAIL, SMS or PUSH")
		schedule := fs.String("schedule", "", "RFC3339 send time (omit for a draft)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *name == "" || *templateID == 0 || *segmentID == 0 {
			return fmt.Errorf("create requires -name, -template and -segment")
		}
		if err := a.requireWrite(ctx); err != nil {
			return err
		}
		req := platform.CreateNotificationRequest{
			Name:       *name,
			TemplateID: *templateID,
			SegmentID:  *segmentID,
			Channel:    platform.NotificationChannel(*channel),
		}
		if *schedule != "" {
			req.ScheduledAt = schedule
		}
		created, err := a.platform.CreateNotification(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("Created campaign #%d (%s)\n", created.ID, created.Status)
		return nil
	}
	return fmt.Errorf("notifications: unknown subcommand %q", sub)
}

func (a *app) cmdSegments(ctx context.Context, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "list", "":
		if _, err := a.requireSession(ctx); err != nil {
			return err
		}
		items, err := a.platform.ListSegments(ctx)
		if err != nil {
			return err
		}
		for _, s := range items {
			fmt.Printf("#%-4d %-24s %-4s size=%-8d active=%v\n", s.ID, s.Name, s.Type, s.Size, s.IsActive)
		}
		return nil

	case "create", "update":
		fs := flag.NewFlagSet("segments "+sub, flag.ContinueOnError)
		id := fs.Int64("id", 0, "segment id (update only)")
		name := fs.String("name", "", "segment name")
		description := fs.String("description", "", "description")
		segType := fs.String("type", "B2C", "B2B or B2C")
		size := fs.Int64("size", 0, "estimated audience size")
		active := fs.Bool("active", true, "active flag")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("segments %s requires -name", sub)
		}
		if err := a.requireWrite(ctx); err != nil {
			return err
		}
		req := platform.SegmentRequest{
			Name:        *name,
			Description: *description,
			Type:        platform.SegmentType(*segType),
			Size:        *size,
			IsActive:    *active,
		}
		if sub == "create" {
			created, err := a.platform.CreateSegment(ctx, req)
			if err != nil {
				return err
			}
			fmt.Printf("Created segment #%d\n", created.ID)
			return nil
		}
		if *id == 0 {
			return fmt.Errorf("segments update requires -id")
		}
		if _, err := a.platform.UpdateSegment(ctx, *id, req); err != nil {
			return err
		}
		fmt.Printf("Updated segment #%d\n", *id)
		return nil
	}
	return fmt.Errorf("segments: unknown subcommand %q", sub)
}

func (a *app) cmdTemplates(ctx context.Context, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "list", "":
		if _, err := a.requireSession(ctx); err != nil {
			return err
		}
		items, err := a.platform.ListTemplates(ctx)
		if err != nil {
			return err
		}
		for _, tpl := range items {
			fmt.Printf("#%-4d %-24s %-6s active=%v  %s\n", tpl.ID, tpl.Name, tpl.Type, tpl.IsActive, tpl.Subject)
		}
		return nil

	case "create", "update":
		fs := flag.NewFlagSet("templates "+sub, flag.ContinueOnError)
		id := fs.Int64("id", 0, "template id (update only)")
		name := fs.String("name", "", "template name")
		tplType := fs.String("type", "EMAIL", "EMAIL, SMS or PUSH")
		subject := fs.String("subject", "", "subject line (email)")
		content := fs.String("content", "", "template body")
		active := fs.Bool("active", true, "active flag")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("templates %s requires -name", sub)
		}
		if err := a.requireWrite(ctx); err != nil {
			return err
		}
		req := platform.TemplateRequest{
			Name:     *name,
			Type:     platform.TemplateType(*tplType),
			Subject:  *subject,
			Content:  *content,
			IsActive: *active,
		}
		if sub == "create" {
			created, err := a.platform.CreateTemplate(ctx, req)
			if err != nil {
				return err
			}
			fmt.Printf("Created template #%d\n", created.ID)
			return nil
		}
		if *id == 0 {
			return fmt.Errorf("templates update requires -id")
		}
		if _, err := a.platform.UpdateTemplate(ctx, *id, req); err != nil {
			return err
		}
		fmt.Printf("Updated template #%d\n", *id)
		return nil

	case "delete":
		fs := flag.NewFlagSet("templates delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "template id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("templates delete requires -id")
		}
		if err := a.requireManage(ctx); err != nil {
			return err
		}
		if err := a.platform.DeleteTemplate(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("Deleted template #%d\n", *id)
		return nil
	}
	return fmt.Errorf("templates: unknown subcommand %q", sub)
}

func (a *app) cmdAutomations(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("automations", flag.ContinueOnError)
	status := fs.String("status", "", "filter by status")
	_, rest := subcommand(args) // accepts optional "list"
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}
	items, err := a.platform.ListAutomations(ctx, platform.AutomationListParams{
		Status: platform.AutomationStatus(*status),
	})
	if err != nil {
		return err
	}
	for _, auto := range items {
		stats := ""
		if auto.Stats != nil {
			stats = fmt.Sprintf("triggered=%d completed=%d", auto.Stats.Triggered, auto.Stats.Completed)
		}
		fmt.Printf("#%-4d %-24s %-20s %-8s %s\n", auto.ID, auto.Name, auto.Trigger, auto.Status, stats)
	}
	return nil
}

func (a *app) cmdSettings(ctx context.Context, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "show", "":
		if _, err := a.requireSession(ctx); err != nil {
			return err
		}
		settings, err := a.platform.FetchSettings(ctx)
		if err != nil {
			return err
		}
		if settings.Email != nil {
			fmt.Printf("email: %s <%s> via %s\n", settings.Email.SenderName, settings.Email.SenderEmail, settings.Email.ServiceProvider)
		}
		if settings.SMS != nil {
			fmt.Printf("sms:   %s originator=%s\n", settings.SMS.Provider, settings.SMS.Originator)
		}
		if settings.Push != nil {
			fmt.Printf("push:  %s\n", settings.Push.Provider)
		}
		if settings.Distribution != nil {
			fmt.Printf("distribution: retries=%d delay=%ds smartRouting=%v\n",
				settings.Distribution.RetryCount, settings.Distribution.RetryDelay, settings.Distribution.SmartRouting)
		}
		for _, rule := range settings.FallbackRules {
			fmt.Printf("fallback: on %s do %s (enabled=%v)\n", rule.Trigger, rule.Action, rule.Enabled)
		}
		return nil

	case "set-distribution":
		fs := flag.NewFlagSet("settings set-distribution", flag.ContinueOnError)
		retryCount := fs.Int("retry-count", 3, "delivery retry count")
		retryDelay := fs.Int("retry-delay", 60, "seconds between retries")
		smart := fs.Bool("smart-routing", true, "enable smart routing")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := a.requireManage(ctx); err != nil {
			return err
		}
		settings, err := a.platform.FetchSettings(ctx)
		if err != nil {
			return err
		}
		settings.Distribution = &platform.DistributionSettings{
			RetryCount:   *retryCount,
			RetryDelay:   *retryDelay,
			SmartRouting: *smart,
		}
		if _, err := a.platform.UpdateSettings(ctx, settings); err != nil {
			return err
		}
		fmt.Println("Distribution settings updated.")
		return nil
	}
	return fmt.Errorf("settings: unknown subcommand %q", sub)
}

// requireSession restores the persisted session, refreshing silently when
// the access token is stale.
func (a *app) requireSession(ctx context.Context) (*session.Data, error) {
	sess, err := a.auth.Bootstrap(ctx)
	if err != nil {
		if errs.Is(err, errs.ErrNoSession) || errs.Is(err, errs.ErrSessionExpired) {
			return nil, fmt.Errorf("not signed in, run 'notifyctl login' first")
		}
		return nil, err
	}
	return sess, nil
}

func (a *app) requireWrite(ctx context.Context) error {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	if !roles.CanWrite(sess.User.Role) {
		return fmt.Errorf("your role (%s) does not allow creating or editing", sess.User.Role)
	}
	return nil
}

func (a *app) requireManage(ctx context.Context) error {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	if !roles.CanManage(sess.User.Role) {
		return fmt.Errorf("your role (%s) does not allow this operation, a manager role is required", sess.User.Role)
	}
	return nil
}

func tierName(role roles.Tag) string {
	switch {
	case roles.CanManage(role):
		return "manage"
	case roles.CanWrite(role):
		return "write"
	case roles.IsReadOnly(role):
		return "read-only"
	}
	return "none"
}

// subcommand splits off a leading subcommand word. A leading flag is not
// a subcommand; it stays in the args for the flag set to parse.
func subcommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return args[0], args[1:]
}
