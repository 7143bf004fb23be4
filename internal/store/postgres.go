package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"airbridge/internal/model"
)

// Postgres persists trips and the webhook queue when DATABASE_URL is set.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// MigrateDir applies every *.sql file in dir in name order (dev helper;
// production migrations run out of band).
func (p *Postgres) MigrateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return err
		}
		if _, err := p.db.Exec(string(b)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) PutTrip(ctx context.Context, trip model.TripContext) error {
	prefs, err := json.Marshal(trip.Preferences)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO trips (id, input_mode, departure_date, home_address, created_at, status,
			flight_number, airline, origin_airport, destination_airport, departure_time_window, preferences)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO NOTHING`,
		trip.TripID, string(trip.InputMode), trip.DepartureDate, trip.HomeAddress, trip.CreatedAt, trip.Status,
		nullIfEmpty(trip.FlightNumber), nullIfEmpty(trip.Airline), nullIfEmpty(trip.OriginAirport),
		nullIfEmpty(trip.DestinationAirport), nullIfEmpty(string(trip.DepartureTimeWindow)), prefs)
	return err
}

const tripColumns = `id::text, input_mode, to_char(departure_date, 'YYYY-MM-DD'), home_address, created_at, status,
	flight_number, airline, origin_airport, destination_airport, departure_time_window, preferences`

func scanTrip(row interface{ Scan(...any) error }) (model.TripContext, error) {
	var t model.TripContext
	var mode, window sql.NullString
	var flight, airline, origin, dest sql.NullString
	var prefs []byte
	err := row.Scan(&t.TripID, &mode, &t.DepartureDate, &t.HomeAddress, &t.CreatedAt, &t.Status,
		&flight, &airline, &origin, &dest, &window, &prefs)
	if err != nil {
		return model.TripContext{}, err
	}
	t.InputMode = model.InputMode(mode.String)
	t.FlightNumber = flight.String
	t.Airline = airline.String
	t.OriginAirport = origin.String
	t.DestinationAirport = dest.String
	t.DepartureTimeWindow = model.DepartureTimeWindow(window.String)
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &t.Preferences); err != nil {
			return model.TripContext{}, err
		}
	}
	return t, nil
}

func (p *Postgres) GetTrip(ctx context.Context, id string) (model.TripContext, error) {
	if _, err := uuid.Parse(id); err != nil {
		// not a uuid, cannot exist in this table
		return model.TripContext{}, ErrNotFound
	}
	row := p.db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id=$1`, id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TripContext{}, ErrNotFound
	}
	return t, err
}

func (p *Postgres) ListTrips(ctx context.Context, cursor string, limit int) ([]model.TripContext, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows *sql.Rows
	var err error
	if cursor != "" {
		rows, err = p.db.QueryContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id::text > $1 ORDER BY id LIMIT $2`, cursor, limit)
	} else {
		rows, err = p.db.QueryContext(ctx, `SELECT `+tripColumns+` FROM trips ORDER BY id LIMIT $1`, limit)
	}
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()
	out := []model.TripContext{}
	var last string
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, t)
		last = t.TripID
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, rows.Err()
}

func (p *Postgres) DeleteTrip(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := p.db.ExecContext(ctx, `DELETE FROM trips WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
	id := uuid.New().String()
	events, err := json.Marshal(req.Events)
	if err != nil {
		return model.Subscription{}, err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO webhook_subscriptions (id, url, events, secret) VALUES ($1,$2,$3,$4)`,
		id, req.URL, events, req.Secret)
	if err != nil {
		return model.Subscription{}, err
	}
	return model.Subscription{ID: id, URL: req.URL, Events: req.Events, Secret: req.Secret}, nil
}

func (p *Postgres) GetSubscriptionsForEvent(ctx context.Context, eventType string) ([]model.Subscription, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id::text, url, events, secret FROM webhook_subscriptions WHERE events @> to_jsonb(ARRAY[$1]::text[])`, eventType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSubscription(rows *sql.Rows) (model.Subscription, error) {
	var s model.Subscription
	var events []byte
	if err := rows.Scan(&s.ID, &s.URL, &events, &s.Secret); err != nil {
		return model.Subscription{}, err
	}
	if err := json.Unmarshal(events, &s.Events); err != nil {
		return model.Subscription{}, err
	}
	return s, nil
}

func (p *Postgres) ListSubscriptions(ctx context.Context, cursor string, limit int) ([]model.Subscription, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows *sql.Rows
	var err error
	if cursor != "" {
		rows, err = p.db.QueryContext(ctx, `SELECT id::text, url, events, secret FROM webhook_subscriptions WHERE id::text > $1 ORDER BY id LIMIT $2`, cursor, limit)
	} else {
		rows, err = p.db.QueryContext(ctx, `SELECT id::text, url, events, secret FROM webhook_subscriptions ORDER BY id LIMIT $1`, limit)
	}
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()
	out := []model.Subscription{}
	var last string
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, s)
		last = s.ID
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, rows.Err()
}

func (p *Postgres) DeleteSubscription(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := p.db.ExecContext(ctx, `DELETE FROM webhook_subscriptions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) EnqueueWebhook(ctx context.Context, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	id := uuid.New().String()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO webhook_deliveries (id, subscription_id, event_type, url, secret, payload, status, attempts, next_attempt_at)
		VALUES ($1,$2,$3,$4,$5,$6,'pending',0,now())`,
		id, nullIfEmpty(subscriptionID), eventType, url, secret, payload)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT id::text, COALESCE(subscription_id::text,''), event_type, url, secret, payload, status, attempts
		FROM webhook_deliveries
		WHERE status='pending' AND next_attempt_at <= now()
		ORDER BY next_attempt_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WebhookDelivery
	for rows.Next() {
		var d WebhookDelivery
		if err := rows.Scan(&d.ID, &d.SubscriptionID, &d.EventType, &d.URL, &d.Secret, &d.Payload, &d.Status, &d.Attempts); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *Postgres) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	if success {
		_, err := p.db.ExecContext(ctx, `
			UPDATE webhook_deliveries
			SET status='delivered', attempts=attempts+1, last_error=$2, response_code=$3, latency_ms=$4, delivered_at=now()
			WHERE id=$1`, id, nullIfEmpty(lastError), responseCode, latencyMs)
		return err
	}
	var next any
	if nextAttemptAt != nil {
		next = *nextAttemptAt
	}
	_, err := p.db.ExecContext(ctx, `
		UPDATE webhook_deliveries
		SET attempts=attempts+1, next_attempt_at=COALESCE($2, next_attempt_at), last_error=$3, response_code=$4, latency_ms=$5
		WHERE id=$1`, id, next, nullIfEmpty(lastError), responseCode, latencyMs)
	return err
}

func (p *Postgres) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE webhook_deliveries
		SET status='failed', attempts=attempts+1, last_error=$2, response_code=$3, latency_ms=$4
		WHERE id=$1`, id, nullIfEmpty(lastError), responseCode, latencyMs)
	return err
}

func (p *Postgres) ListWebhookDeliveries(ctx context.Context, status, cursor string, limit int) ([]map[string]any, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT id::text, COALESCE(subscription_id::text,''), event_type, url, status, attempts,
		COALESCE(last_error,''), COALESCE(response_code,0), COALESCE(latency_ms,0)
		FROM webhook_deliveries`
	args := []any{}
	var conds []string
	if status != "" {
		args = append(args, status)
		conds = append(conds, `status=$1`)
	}
	if cursor != "" {
		args = append(args, cursor)
		if len(args) == 1 {
			conds = append(conds, `id::text > $1`)
		} else {
			conds = append(conds, `id::text > $2`)
		}
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	switch len(args) {
	case 1:
		q += ` ORDER BY id LIMIT $1`
	case 2:
		q += ` ORDER BY id LIMIT $2`
	case 3:
		q += ` ORDER BY id LIMIT $3`
	}
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()
	out := []map[string]any{}
	var last string
	for rows.Next() {
		var id, subID, eventType, url, st, lastErr string
		var attempts, code, latency int
		if err := rows.Scan(&id, &subID, &eventType, &url, &st, &attempts, &lastErr, &code, &latency); err != nil {
			return nil, "", err
		}
		out = append(out, map[string]any{
			"id": id, "subscriptionId": subID, "eventType": eventType, "url": url,
			"status": st, "attempts": attempts, "lastError": lastErr,
			"responseCode": code, "latencyMs": latency,
		})
		last = id
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
