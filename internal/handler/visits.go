package handler

import (
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionVisitsKey    = "visits"
	sessionLastVisitKey = "last_visit"
	visitInterval       = 24 * time.Hour
)

// trackVisit 维护会话中的访问次数：距离上次计数满一天才会加一
func (a *API) trackVisit(c *gin.Context) int {
	session := sessions.Default(c)
	now := a.now()

	visits := sessionVisits(c)
	lastVisit, ok := parseLastVisit(session.Get(sessionLastVisitKey))
	switch {
	case !ok:
		session.Set(sessionLastVisitKey, now.Format(time.RFC3339))
	case now.Sub(lastVisit) >= visitInterval:
		visits++
		session.Set(sessionLastVisitKey, now.Format(time.RFC3339))
	}
	session.Set(sessionVisitsKey, visits)

	if err := session.Save(); err != nil {
		log.Printf("[rango] failed to save visit counter: %v", err)
	}
	return visits
}

func sessionVisits(c *gin.Context) int {
	visits, ok := sessions.Default(c).Get(sessionVisitsKey).(int)
	if !ok || visits < 1 {
		return 1
	}
	return visits
}

func parseLastVisit(value interface{}) (time.Time, bool) {
	raw, ok := value.(string)
	if !ok || raw == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
