package store

import (
	"context"
	"fmt"
	"time"
)

// Contact is a message left through the public contact form.
type Contact struct {
	ID            int64
	TouristName   string
	Email         string
	Message       string
	CommittedTime time.Time
}

// ListContacts returns every contact message, newest first.
func (q *Queries) ListContacts(ctx context.Context) ([]Contact, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, tourist_name, email, message, committed_time
		FROM contacts ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()
	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.TouristName, &c.Email, &c.Message, &c.CommittedTime); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// CreateContactParams holds the fields for a new contact message.
type CreateContactParams struct {
	TouristName string
	Email       string
	Message     string
}

// CreateContact inserts a contact message stamped with the current time.
func (q *Queries) CreateContact(ctx context.Context, arg CreateContactParams) error {
	if _, err := q.db.ExecContext(ctx, `INSERT INTO contacts
		(tourist_name, email, message, committed_time) VALUES (?, ?, ?, ?)`,
		arg.TouristName, arg.Email, arg.Message, time.Now()); err != nil {
		return fmt.Errorf("inserting contact from %q: %w", arg.TouristName, err)
	}
	return nil
}
