package devstub

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/indiriim/go-notify-admin/platform"
)

func (s *Server) handleDashboardSummary(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	summary := platform.DashboardSummary{}
	for _, n := range s.notifications {
		switch n.Status {
		case platform.StatusDraft:
			summary.DraftCount++
		case platform.StatusScheduled:
			summary.ScheduledCount++
		case platform.StatusSent:
			summary.SentCount++
		}
	}
	last := s.notifications
	if len(last) > 5 {
		last = last[len(last)-5:]
	}
	summary.LastNotifications = append([]platform.Notification(nil), last...)
	c.JSON(http.StatusOK, summary)
}

// Lists answer with a bare array, or with the paged envelope when the
// caller asks for a page, matching both shapes the real backend has used.
func respondList[T any](c *gin.Context, items []T) {
	if c.Query("page") != "" {
		c.JSON(http.StatusOK, gin.H{"content": items, "totalElements": len(items)})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleListNotifications(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	items := make([]platform.Notification, 0, len(s.notifications))
	status := platform.NotificationStatus(c.Query("status"))
	for _, n := range s.notifications {
		if status != "" && n.Status != status {
			continue
		}
		items = append(items, n)
	}
	respondList(c, items)
}

func (s *Server) handleCreateNotification(c *gin.Context) {
	var req platform.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "malformed notification", "")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	status := platform.StatusDraft
	if req.ScheduledAt != nil {
		status = platform.StatusScheduled
	}
	s.nextID++
	created := platform.Notification{
		ID:          s.nextID,
		Name:        req.Name,
		Channel:     req.Channel,
		Status:      status,
		ScheduledAt: req.ScheduledAt,
		SegmentName: s.segmentName(req.SegmentID),
	}
	s.notifications = append(s.notifications, created)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) segmentName(id int64) string {
	for _, seg := range s.segments {
		if seg.ID == id {
			return seg.Name
		}
	}
	return ""
}

func (s *Server) handleListSegments(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	respondList(c, append([]platform.Segment(nil), s.segments...))
}

func (s *Server) handleCreateSegment(c *gin.Context) {
	var req platform.SegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "malformed segment", "")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.nextID++
	created := platform.Segment{
		ID:          s.nextID,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Size:        req.Size,
		RuleJSON:    req.RuleJSON,
		IsActive:    req.IsActive,
	}
	s.segments = append(s.segments, created)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateSegment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		failJSON(c, http.StatusBadRequest, "invalid segment id", "")
		return
	}
	var req platform.SegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "malformed segment", "")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	for i := range s.segments {
		if s.segments[i].ID != id {
			continue
		}
		s.segments[i].Name = req.Name
		s.segments[i].Description = req.Description
		s.segments[i].Type = req.Type
		s.segments[i].Size = req.Size
		s.segments[i].RuleJSON = req.RuleJSON
		s.segments[i].IsActive = req.IsActive
		c.JSON(http.StatusOK, s.segments[i])
		return
	}
	failJSON(c, http.StatusNotFound, "segment not found", "")
}

func (s *Server) handleListTemplates(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	respondList(c, append([]platform.Template(nil), s.templates...))
}

func (s *Server) handleCreateTemplate(c *gin.Context) {
	var req platform.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "malformed template", "")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.nextID++
	created := platform.Template{
		ID:       s.nextID,
		Name:     req.Name,
		Type:     req.Type,
		Subject:  req.Subject,
		Content:  req.Content,
		IsActive: req.IsActive,
	}
	s.templates = append(s.templates, created)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateTemplate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		failJSON(c, http.StatusBadRequest, "invalid template id", "")
		return
	}
	var req platform.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "malformed template", "")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	for i := range s.templates {
		if s.templates[i].ID != id {
			continue
		}
		s.templates[i].Name = req.Name
		s.templates[i].Type = req.Type
		s.templates[i].Subject = req.Subject
		s.templates[i].Content = req.Content
		s.templates[i].IsActive = req.IsActive
		c.JSON(http.StatusOK, s.templates[i])
		return
	}
	failJSON(c, http.StatusNotFound, "template not found", "")
}

func (s *Server) handleDeleteTemplate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		failJSON(c, http.StatusBadRequest, "invalid template id", "")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	for i := range s.templates {
		if s.templates[i].ID == id {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	failJSON(c, http.StatusNotFound, "template not found", "")
}

func (s *Server) handleListAutomations(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	items := make([]platform.Automation, 0, len(s.automations))
	status := platform.AutomationStatus(c.Query("status"))
	for _, a := range s.automations {
		if status != "" && a.Status != status {
			continue
		}
		items = append(items, a)
	}
	respondList(c, items)
}

func (s *Server) handleGetSettings(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	c.JSON(http.StatusOK, s.settings)
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req platform.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "malformed settings", "")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.settings = req
	c.JSON(http.StatusOK, s.settings)
}
