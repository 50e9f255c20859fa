package models

type AdminOverview struct {
	TotalArtists     int     `json:"total_artists"`
	ActiveArtists    int     `json:"active_artists"`
	PendingContent   int     `json:"pending_content"`
	TotalContent     int     `json:"total_content"`
	TotalSubscribers int     `json:"total_subscribers"`
	TotalRevenue     float64 `json:"total_revenue"`
	MonthlyRevenue   float64 `json:"monthly_revenue"`
}

type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type ArtistRevenue struct {
	ArtistID string  `json:"artist_id"`
	Name     string  `json:"name"`
	Revenue  float64 `json:"revenue"`
}

type RevenueReport struct {
	Period     string          `json:"period"`
	Total      float64         `json:"total"`
	Series     []SeriesPoint   `json:"series"`
	TopArtists []ArtistRevenue `json:"top_artists,omitempty"`
}

type ArtistStats struct {
	TotalPlays     int     `json:"total_plays"`
	Subscribers    int     `json:"subscribers"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
	TotalContent   int     `json:"total_content"`
	PendingContent int     `json:"pending_content"`
}

type ArtistDashboard struct {
	Stats  ArtistStats `json:"stats"`
	Recent []Content   `json:"recent" validate:"dive"`
}

// AdminDashboard is the admin landing page: aggregates plus the head of the
// moderation queue.
type AdminDashboard struct {
	Overview AdminOverview `json:"overview"`
	Pending  []Content     `json:"pending" validate:"dive"`
}

type Metric string

const (
	MetricPlays       Metric = "plays"
	MetricRevenue     Metric = "revenue"
	MetricSubscribers Metric = "subscribers"
)

func ParseMetric(s string) (Metric, bool) {
	switch Metric(s) {
	case MetricPlays, MetricRevenue, MetricSubscribers:
		return Metric(s), true
	}
	return "", false
}

type AnalyticsSeries struct {
	Metric Metric        `json:"metric"`
	Range  string        `json:"range"`
	Total  float64       `json:"total"`
	Points []SeriesPoint `json:"points"`
}

// ChannelPreview is the artist's channel as fans see it.
type ChannelPreview struct {
	Artist          Artist    `json:"artist"`
	SubscriberCount int       `json:"subscriber_count"`
	Content         []Content `json:"content" validate:"dive"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Token string       `json:"token" validate:"required"`
	User  *SessionUser `json:"user,omitempty"`
}
