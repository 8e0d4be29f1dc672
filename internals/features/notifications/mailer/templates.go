package mailer

import (
	"fmt"
	"html"
)

func Welcome(to, name, studioName, siteURL string) Message {
	if name == "" {
		name = "there"
	}
	greeting := "Welcome to StudioFit"
	if studioName != "" {
		greeting = "Welcome to " + studioName
	}
	return Message{
		To:      to,
		Subject: greeting,
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>%s! Your account is ready.</p><p><a href="%s/login">Sign in</a> to see your schedule.</p>`,
			html.EscapeString(name), html.EscapeString(greeting), siteURL),
		Text: fmt.Sprintf("Hi %s,\n\n%s! Your account is ready. Sign in at %s/login\n", name, greeting, siteURL),
		Tags: map[string]string{"category": "welcome"},
	}
}

type ReminderData struct {
	ClientName string
	ClassName  string
	Date       string
	StartTime  string
	EndTime    string
	Location   string
	StudioName string
}

func ClassReminder(to string, d ReminderData) Message {
	where := ""
	if d.Location != "" {
		where = " at " + d.Location
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Reminder: %s on %s", d.ClassName, d.Date),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>This is a reminder for <strong>%s</strong> on %s, %s-%s%s.</p><p>See you there!<br>%s</p>`,
			html.EscapeString(d.ClientName), html.EscapeString(d.ClassName), d.Date, d.StartTime, d.EndTime,
			html.EscapeString(where), html.EscapeString(d.StudioName)),
		Text: fmt.Sprintf("Hi %s,\n\nThis is a reminder for %s on %s, %s-%s%s.\n\nSee you there!\n%s\n",
			d.ClientName, d.ClassName, d.Date, d.StartTime, d.EndTime, where, d.StudioName),
		Tags: map[string]string{"category": "class_reminder"},
	}
}
