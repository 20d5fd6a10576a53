package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	TypeMockTestUploaded     = "MockTestUploaded"
	TypeNotificationUploaded = "NotificationUploaded"
	TypePracticeUploaded     = "PracticeUploaded"
)

type Event struct {
	Seq       int64
	SiteID    string
	Type      string
	Ref       string
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct {
	db     *sql.DB
	siteID string
}

func NewEventRepo(db *sql.DB, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{db: db, siteID: siteID}
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = r.siteID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, ref, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Ref, e.DataJSON, time.Now().Unix())
	return err
}

// Record marshals data and appends it as an event of type typ.
func (r *EventRepo) Record(ctx context.Context, typ, ref string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.Append(ctx, Event{Type: typ, Ref: ref, DataJSON: string(b)})
}

// List returns events oldest first, optionally filtered by type.
func (r *EventRepo) List(ctx context.Context, typ string) ([]Event, error) {
	q := `SELECT seq, site_id, typ, ref, data, created_at FROM event_log`
	args := []any{}
	if typ != "" {
		q += ` WHERE typ=$1`
		args = append(args, typ)
	}
	rows, err := r.db.QueryContext(ctx, q+` ORDER BY seq`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Ref, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
