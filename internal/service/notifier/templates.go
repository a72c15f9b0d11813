package notifier

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// DefaultLocale язык уведомлений, если у студента не указан поддерживаемый
const DefaultLocale = "fr"

type messageTemplate struct {
	subject string
	body    string
}

var catalog = map[string]map[domain.NotificationKind]messageTemplate{
	"fr": {
		domain.NotificationReminder: {
			subject: "Votre leçon de rattrapage expire bientôt",
			body: `Bonjour {{.FirstName}},

Il vous reste {{.DaysRemaining}} jour{{if gt .DaysRemaining 1}}s{{end}} pour réserver votre leçon de rattrapage (catégorie {{.Category}}).
Elle expire le {{.ExpiresAt}}.`,
		},
		domain.NotificationAvailable: {
			subject: "Leçon de rattrapage disponible",
			body: `Bonjour {{.FirstName}},

Une leçon de rattrapage (catégorie {{.Category}}) est disponible sur votre compte jusqu'au {{.ExpiresAt}}.`,
		},
		domain.NotificationRejected: {
			subject: "Demande de rattrapage refusée",
			body: `Bonjour {{.FirstName}},

Votre demande de leçon de rattrapage (catégorie {{.Category}}) a été refusée.{{if .Reason}}
Motif : {{.Reason}}{{end}}`,
		},
	},
	"de": {
		domain.NotificationReminder: {
			subject: "Ihre Nachholstunde läuft bald ab",
			body: `Hallo {{.FirstName}},

Sie haben noch {{.DaysRemaining}} Tag{{if gt .DaysRemaining 1}}e{{end}}, um Ihre Nachholstunde (Kategorie {{.Category}}) zu buchen.
Sie läuft am {{.ExpiresAt}} ab.`,
		},
		domain.NotificationAvailable: {
			subject: "Nachholstunde verfügbar",
			body: `Hallo {{.FirstName}},

Eine Nachholstunde (Kategorie {{.Category}}) steht Ihnen bis zum {{.ExpiresAt}} zur Verfügung.`,
		},
		domain.NotificationRejected: {
			subject: "Nachholstunde abgelehnt",
			body: `Hallo {{.FirstName}},

Ihre Anfrage für eine Nachholstunde (Kategorie {{.Category}}) wurde abgelehnt.{{if .Reason}}
Grund: {{.Reason}}{{end}}`,
		},
	},
	"it": {
		domain.NotificationReminder: {
			subject: "La sua lezione di recupero scade presto",
			body: `Buongiorno {{.FirstName}},

Le rimangono {{.DaysRemaining}} giorn{{if gt .DaysRemaining 1}}i{{else}}o{{end}} per prenotare la lezione di recupero (categoria {{.Category}}).
Scade il {{.ExpiresAt}}.`,
		},
		domain.NotificationAvailable: {
			subject: "Lezione di recupero disponibile",
			body: `Buongiorno {{.FirstName}},

Una lezione di recupero (categoria {{.Category}}) è disponibile fino al {{.ExpiresAt}}.`,
		},
		domain.NotificationRejected: {
			subject: "Lezione di recupero rifiutata",
			body: `Buongiorno {{.FirstName}},

La sua richiesta di lezione di recupero (categoria {{.Category}}) è stata rifiutata.{{if .Reason}}
Motivo: {{.Reason}}{{end}}`,
		},
	},
	"en": {
		domain.NotificationReminder: {
			subject: "Your makeup lesson expires soon",
			body: `Hello {{.FirstName}},

You have {{.DaysRemaining}} day{{if gt .DaysRemaining 1}}s{{end}} left to book your makeup lesson (category {{.Category}}).
It expires on {{.ExpiresAt}}.`,
		},
		domain.NotificationAvailable: {
			subject: "Makeup lesson available",
			body: `Hello {{.FirstName}},

A makeup lesson (category {{.Category}}) is available on your account until {{.ExpiresAt}}.`,
		},
		domain.NotificationRejected: {
			subject: "Makeup lesson request rejected",
			body: `Hello {{.FirstName}},

Your makeup lesson request (category {{.Category}}) was rejected.{{if .Reason}}
Reason: {{.Reason}}{{end}}`,
		},
	},
}

// templateData данные для шаблонов уведомлений
type templateData struct {
	FirstName     string
	Category      string
	DaysRemaining int
	ExpiresAt     string
	Reason        string
}

// Renderer подготовленные шаблоны уведомлений по языкам
type Renderer struct {
	templates map[string]map[domain.NotificationKind]*template.Template
	subjects  map[string]map[domain.NotificationKind]string
}

// NewRenderer разбирает каталог шаблонов
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]map[domain.NotificationKind]*template.Template),
		subjects:  make(map[string]map[domain.NotificationKind]string),
	}

	for locale, kinds := range catalog {
		r.templates[locale] = make(map[domain.NotificationKind]*template.Template)
		r.subjects[locale] = make(map[domain.NotificationKind]string)
		for kind, tmpl := range kinds {
			parsed, err := template.New(locale + "/" + string(kind)).Parse(tmpl.body)
			if err != nil {
				return nil, fmt.Errorf("notifier: parse template %s/%s: %w", locale, kind, err)
			}
			r.templates[locale][kind] = parsed
			r.subjects[locale][kind] = tmpl.subject
		}
	}
	return r, nil
}

// Render возвращает тему и текст уведомления на языке студента
func (r *Renderer) Render(locale string, kind domain.NotificationKind, data templateData) (string, string, error) {
	locale = normalizeLocale(locale)
	if _, ok := r.templates[locale]; !ok {
		locale = DefaultLocale
	}

	tmpl, ok := r.templates[locale][kind]
	if !ok {
		return "", "", fmt.Errorf("notifier: no template for %s/%s", locale, kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("notifier: render %s/%s: %w", locale, kind, err)
	}
	return r.subjects[locale][kind], buf.String(), nil
}

// normalizeLocale "fr-CH" -> "fr"
func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return locale
}
