package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/komsyte/pos-engine/internal/shared/notify"
)

// NoticeAPI exposes the engine's non-blocking operator notices.
type NoticeAPI struct {
	queue *notify.Queue
}

// NewNoticeAPI creates a NoticeAPI backed by the provided queue.
func NewNoticeAPI(queue *notify.Queue) NoticeAPI {
	return NoticeAPI{queue: queue}
}

// Get /v1/notices
// Drain pending notices; each notice is delivered exactly once
func (api *NoticeAPI) DrainNotices(c *gin.Context) {
	notices := api.queue.Drain()
	if notices == nil {
		notices = []notify.Notice{}
	}
	c.JSON(http.StatusOK, notices)
}
