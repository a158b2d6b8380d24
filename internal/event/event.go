package event

import (
	"encoding/json"
	"fmt"
	"io"
)

// Record is the alert data Sentry hands over for one triggered rule. It lives
// for a single format-and-send operation and is never persisted.
type Record struct {
	ProjectSlug string
	ProjectName string
	Env         string
	Title       string
	ID          string
	Link        string
	Level       string
	Message     string
	Culprit     string
	Release     string
	Tags        []Tag
}

// Tag is one key/value pair attached to the triggering event.
type Tag struct {
	Key   string
	Value string
}

// Fields returns the closed mapping of template placeholder names to values.
// Every recognized placeholder is present; unset fields map to "". The "tags"
// entry is the raw joined values and is normally replaced by the notifier
// after tag filtering has run.
func (r Record) Fields() map[string]string {
	tags := ""
	for i, t := range r.Tags {
		if i > 0 {
			tags += " "
		}
		tags += t.Value
	}
	return map[string]string{
		"project_slug": r.ProjectSlug,
		"project_name": r.ProjectName,
		"env":          r.Env,
		"title":        r.Title,
		"id":           r.ID,
		"link":         r.Link,
		"level":        r.Level,
		"tags":         tags,
		"message":      r.Message,
		"culprit":      r.Culprit,
		"release":      r.Release,
	}
}

// payload mirrors the JSON body Sentry's webhook integration POSTs per alert.
// Only the fields this plugin consumes are decoded.
type payload struct {
	ID          string `json:"id"`
	Project     string `json:"project"`
	ProjectName string `json:"project_name"`
	ProjectSlug string `json:"project_slug"`
	Culprit     string `json:"culprit"`
	Level       string `json:"level"`
	Message     string `json:"message"`
	URL         string `json:"url"`
	Event       struct {
		EventID     string     `json:"event_id"`
		Title       string     `json:"title"`
		Environment string     `json:"environment"`
		Release     string     `json:"release"`
		Tags        [][]string `json:"tags"`
	} `json:"event"`
}

// DecodePayload reads a Sentry webhook body and builds a Record from it.
// Unknown JSON fields are ignored; an empty or malformed body is an error.
func DecodePayload(r io.Reader) (Record, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Record{}, fmt.Errorf("decoding sentry payload: %w", err)
	}

	slug := p.ProjectSlug
	if slug == "" {
		// Older payloads carry the slug in "project".
		slug = p.Project
	}

	rec := Record{
		ProjectSlug: slug,
		ProjectName: p.ProjectName,
		Env:         p.Event.Environment,
		Title:       p.Event.Title,
		ID:          p.Event.EventID,
		Link:        p.URL,
		Level:       p.Level,
		Message:     p.Message,
		Culprit:     p.Culprit,
		Release:     p.Event.Release,
	}
	if rec.ID == "" {
		rec.ID = p.ID
	}
	if rec.Title == "" {
		rec.Title = p.Message
	}
	for _, kv := range p.Event.Tags {
		if len(kv) != 2 {
			continue
		}
		rec.Tags = append(rec.Tags, Tag{Key: kv[0], Value: kv[1]})
		if kv[0] == "level" && rec.Level == "" {
			rec.Level = kv[1]
		}
		if kv[0] == "environment" && rec.Env == "" {
			rec.Env = kv[1]
		}
	}
	return rec, nil
}
