package engine

import "strings"

func (e *Engine) SetAnnouncement(actor int64, text string) (Announcement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.IsAdmin(actor) {
		return Announcement{}, ErrNotAuthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Announcement{}, ErrEmptyAnnouncement
	}
	e.announcement.Text = text
	e.persistLocked(KeyAnnouncement)
	return e.announcement, nil
}

// SetAnnouncementMedia attaches a platform media reference to the prompt.
// An empty id clears it.
func (e *Engine) SetAnnouncementMedia(actor int64, mediaID, mediaType string) (Announcement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.IsAdmin(actor) {
		return Announcement{}, ErrNotAuthorized
	}
	e.announcement.MediaID = strings.TrimSpace(mediaID)
	e.announcement.MediaType = ""
	if e.announcement.MediaID != "" {
		e.announcement.MediaType = mediaType
	}
	e.persistLocked(KeyAnnouncement)
	return e.announcement, nil
}

func (e *Engine) Announcement() Announcement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.announcement
}
