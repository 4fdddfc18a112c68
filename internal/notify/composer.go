package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/language"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
)

// Kind selects which confirmation email to compose.
type Kind int

const (
	// KindTripCreated asks the owner to confirm the trip they just created.
	KindTripCreated Kind = iota
	// KindTripInvitation asks an invitee to confirm their presence on a confirmed trip.
	KindTripInvitation
)

func (k Kind) String() string {
	switch k {
	case KindTripCreated:
		return "trip_created"
	case KindTripInvitation:
		return "trip_invitation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// copyText is the translated wording around the shared email skeleton.
type copyText struct {
	Subject     string // format verb receives the destination
	Created     string
	Invited     string
	Dates       string
	Until       string
	CallCreated string
	CallInvited string
	Button      string
	Ignore      string
}

var translations = map[language.Tag]copyText{
	language.BrazilianPortuguese: {
		Subject:     "Confirme sua viagem para %s",
		Created:     "Você solicitou a criação de uma viagem para",
		Invited:     "Você foi convidado(a) para participar de uma viagem para",
		Dates:       "nas datas de",
		Until:       "até",
		CallCreated: "Para confirmar sua viagem, clique no link abaixo:",
		CallInvited: "Para confirmar sua presença, clique no link abaixo:",
		Button:      "Confirmar viagem",
		Ignore:      "Caso você não saiba do que se trata esse e-mail, apenas ignore.",
	},
	language.AmericanEnglish: {
		Subject:     "Confirm your trip to %s",
		Created:     "You requested the creation of a trip to",
		Invited:     "You have been invited to join a trip to",
		Dates:       "from",
		Until:       "to",
		CallCreated: "To confirm your trip, click the link below:",
		CallInvited: "To confirm your attendance, click the link below:",
		Button:      "Confirm trip",
		Ignore:      "If you don't know what this email is about, just ignore it.",
	},
}

var bodyTemplate = template.Must(template.New("trip").Parse(`<div style="font-family: sans-serif; font-size: 16px; line-height: 1.6">
  <p>
    {{if .Invitation}}{{.Text.Invited}}{{else}}{{.Text.Created}}{{end}} <strong>{{.Destination}}</strong>, {{.Text.Dates}}
    <strong>{{.StartsAt}}</strong> {{.Text.Until}} <strong>{{.EndsAt}}</strong>.
  </p>
  <p></p>
  <p>{{if .Invitation}}{{.Text.CallInvited}}{{else}}{{.Text.CallCreated}}{{end}}</p>
  <p></p>
  <p>
    <a href="{{.Link}}">{{.Text.Button}}</a>
  </p>
  <p></p>
  <p>{{.Text.Ignore}}</p>
</div>`))

// Composer renders confirmation emails for one locale.
// It performs no I/O; the same inputs always produce the same Message.
type Composer struct {
	locale language.Tag
}

// NewComposer returns a Composer for the closest supported match of locale.
func NewComposer(locale string) *Composer {
	return &Composer{locale: MatchLocale(locale)}
}

// Locale reports the locale the Composer resolved to.
func (c *Composer) Locale() language.Tag {
	return c.locale
}

// Compose builds the email of the given kind for recipient, pointing at link.
func (c *Composer) Compose(kind Kind, trip domain.Trip, recipient domain.Participant, link string) (Message, error) {
	text := translations[c.locale]

	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, struct {
		Invitation  bool
		Text        copyText
		Destination string
		StartsAt    string
		EndsAt      string
		Link        string
	}{
		Invitation:  kind == KindTripInvitation,
		Text:        text,
		Destination: trip.Destination,
		StartsAt:    FormatLongDate(trip.StartsAt, c.locale),
		EndsAt:      FormatLongDate(trip.EndsAt, c.locale),
		Link:        link,
	})
	if err != nil {
		return Message{}, fmt.Errorf("notify.Composer.Compose: %s: %w", kind, err)
	}

	return Message{
		To:      recipient.Email,
		ToName:  recipient.Name,
		Subject: fmt.Sprintf(text.Subject, trip.Destination),
		HTML:    strings.TrimSpace(buf.String()),
	}, nil
}
