package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SignupTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipshare_signup_total",
		Help: "no. of accounts created",
	})
	LoginTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipshare_login_total",
			Help: "no. of login attempts",
		},
		[]string{"result"},
	)
	ItemCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipshare_item_created_total",
		Help: "no. of clipboard items created",
	})
	ItemUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipshare_item_updated_total",
		Help: "no. of clipboard items updated",
	})
	ItemDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipshare_item_deleted_total",
		Help: "no. of clipboard items deleted",
	})
	ShareIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipshare_share_issued_total",
		Help: "no. of share codes issued",
	})
	ShareRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipshare_share_revoked_total",
		Help: "no. of share codes revoked",
	})
	ShareResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipshare_share_resolved_total",
			Help: "no. of share code validation attempts",
		},
		[]string{"result"},
	)
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipshare_rate_limit_hits_total",
			Help: "no. of rate limit violations",
		},
		[]string{"endpoint"},
	)
)

func Init() {
}
