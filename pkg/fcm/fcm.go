// Package fcm sends push notifications through Firebase Cloud Messaging.
package fcm

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Messenger is the part of *messaging.Client used here.
type Messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type Client struct {
	messenger Messenger
}

// New builds a client from a service account credentials file.
func New(ctx context.Context, credentialsFile string) (*Client, error) {
	if credentialsFile == "" {
		return nil, errors.New("fcm: credentials file is not set")
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	m, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &Client{messenger: m}, nil
}

func NewWithMessenger(m Messenger) *Client {
	return &Client{messenger: m}
}

// Send pushes one notification to a device token and returns the message id.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	if token == "" {
		return "", errors.New("fcm: empty device token")
	}
	return c.messenger.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
}
