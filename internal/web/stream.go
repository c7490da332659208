package web

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"coalition_site/internal/countdown"
	"coalition_site/internal/dates"
)

type unitPayload struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type statePayload struct {
	Target    string        `json:"target"`
	Units     []unitPayload `json:"units"`
	Text      string        `json:"text"`
	Completed bool          `json:"completed"`
}

func newStatePayload(s countdown.State) statePayload {
	p := statePayload{
		Target:    s.Target.UTC().Format(time.RFC3339),
		Text:      countdown.String(s),
		Completed: s.Completed,
	}
	for _, u := range countdown.Units(s) {
		p.Units = append(p.Units, unitPayload{Label: u.Label, Value: u.Value})
	}
	return p
}

// handleCountdownStream sends one "countdown" event per second until the
// target passes or the client goes away.
func (s *Server) handleCountdownStream(c *gin.Context) {
	target, err := s.streamTarget(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timer := countdown.NewTimer(s.clock)
	defer timer.Stop()
	states := timer.Start(target)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	gone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-gone:
			return false
		case st, ok := <-states:
			if !ok {
				return false
			}
			c.SSEvent("countdown", newStatePayload(st))
			return !st.Completed
		}
	})
}

// streamTarget reads either an absolute target or a days/hours/minutes/seconds
// offset from now.
func (s *Server) streamTarget(c *gin.Context) (time.Time, error) {
	if raw := c.Query("target"); raw != "" {
		t, ok := dates.Parse(raw)
		if !ok {
			return time.Time{}, fmt.Errorf("invalid target %q", raw)
		}
		return t, nil
	}

	var o countdown.Offset
	fields := []struct {
		name string
		dst  *int
	}{
		{"days", &o.Days},
		{"hours", &o.Hours},
		{"minutes", &o.Minutes},
		{"seconds", &o.Seconds},
	}
	for _, f := range fields {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid %s %q", f.name, raw)
		}
		*f.dst = n
	}
	if err := o.Validate(); err != nil {
		return time.Time{}, err
	}
	if o.Duration() <= 0 {
		return time.Time{}, fmt.Errorf("target or a positive offset is required")
	}
	return o.Target(s.clock.Now()), nil
}
