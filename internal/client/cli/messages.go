package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// Send prompts for a recipient, a message body, and an optional attachment
// file, then creates the message. When a file path is given, the file is
// uploaded to object storage first and its key attached.
func (a *App) Send(ctx context.Context) error {
	to, err := getSimpleText(a.reader, "Send to", os.Stdout)
	if err != nil {
		return err
	}

	body, err := GetMultiline(a.reader, "Message", os.Stdout)
	if err != nil {
		return err
	}

	filePath, err := getSimpleText(a.reader, "Attach file (path, empty for none)", os.Stdout)
	if err != nil {
		return err
	}

	var attachmentKey string
	if filePath != "" {
		attachmentKey, err = a.uploadAttachment(ctx, filePath)
		if err != nil {
			fmt.Println(err.Error())
			return err
		}
	}

	msg, err := a.api.Send(ctx, to, body, attachmentKey)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Printf("Sent message %d to %s\n", msg.ID, msg.ToUsername)
	return nil
}

func (a *App) uploadAttachment(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	key, uploadURL, err := a.api.PresignUpload(ctx)
	if err != nil {
		return "", err
	}

	if err := a.api.UploadAttachment(ctx, uploadURL, data); err != nil {
		return "", err
	}

	return key, nil
}

// Show fetches one message by id and prints it, including a download URL
// for its attachment when there is one.
func (a *App) Show(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	msg, err := a.api.Show(ctx, id)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	status := "unread"
	if msg.ReadAt != nil {
		status = "read " + msg.ReadAt.Format("2006-01-02 15:04")
	}

	fmt.Printf("#%d  %s -> %s  (%s, %s)\n", msg.ID,
		msg.FromUser.Username, msg.ToUser.Username,
		msg.SentAt.Format("2006-01-02 15:04"), status)
	fmt.Println(msg.Body)

	if url, err := a.api.AttachmentURL(ctx, id); err == nil {
		fmt.Println("Attachment:", url)
	}

	return nil
}

// MarkRead marks a received message as read.
func (a *App) MarkRead(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	readAt, err := a.api.MarkRead(ctx, id)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Printf("Message %d read at %s\n", id, readAt.Format("2006-01-02 15:04"))
	return nil
}

// Inbox prints the messages sent to the current user.
func (a *App) Inbox(ctx context.Context) error {
	msgs, err := a.api.Inbox(ctx, a.userName)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if len(msgs) == 0 {
		fmt.Println("Inbox is empty")
		return nil
	}

	for _, m := range msgs {
		marker := "*"
		if m.ReadAt != nil {
			marker = " "
		}
		fmt.Printf("%s #%d  from %s  %s  %s\n", marker, m.ID, m.FromUsername,
			m.SentAt.Format("2006-01-02 15:04"), firstLine(m.Body))
	}
	return nil
}

// Outbox prints the messages sent by the current user.
func (a *App) Outbox(ctx context.Context) error {
	msgs, err := a.api.Outbox(ctx, a.userName)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if len(msgs) == 0 {
		fmt.Println("No sent messages")
		return nil
	}

	for _, m := range msgs {
		fmt.Printf("  #%d  to %s  %s  %s\n", m.ID, m.ToUsername,
			m.SentAt.Format("2006-01-02 15:04"), firstLine(m.Body))
	}
	return nil
}

// Users prints all registered users.
func (a *App) Users(ctx context.Context) error {
	users, err := a.api.Users(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	for _, u := range users {
		name := u.FirstName + " " + u.LastName
		fmt.Printf("  %-20s %s\n", u.Username, name)
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid message id %q", raw)
	}
	return id, nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i] + "..."
		}
	}
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
