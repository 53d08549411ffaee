package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urbandict_registrations_total",
		Help: "Registrations that resulted in a verification mail being sent.",
	})

	ActivationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urbandict_activations_total",
		Help: "Accounts activated through a verification link.",
	})

	PostsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urbandict_posts_created_total",
		Help: "Posts created directly by authenticated users.",
	})

	GuestSubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urbandict_guest_submissions_total",
		Help: "Guest submissions held for email verification.",
	})

	PromotionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urbandict_promotions_total",
		Help: "Unverified posts promoted to published posts.",
	})

	ReactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urbandict_reactions_total",
		Help: "Reaction toggles by resulting state.",
	}, []string{"state"})
)

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
