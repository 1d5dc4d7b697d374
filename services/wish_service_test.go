package services

import (
	"errors"
	"testing"
	"time"

	"dearminder-backend/models"
	"dearminder-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeEventStore struct {
	events []models.Event
	err    error
}

func (f *fakeEventStore) ListActive() ([]models.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventStore) ListForDay(target time.Time) ([]models.Event, error) {
	events, err := f.ListActive()
	if err != nil {
		return nil, err
	}
	var due []models.Event
	for _, event := range events {
		if len(event.Channels) == 0 {
			continue
		}
		if utils.OccursOn(event.EventDate, target) {
			due = append(due, event)
		}
	}
	return due, nil
}

type fakeLogStore struct {
	entries []models.WishLog
	err     error
}

func (f *fakeLogStore) Append(entry *models.WishLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLogStore) byChannel(channel string) []models.WishLog {
	var out []models.WishLog
	for _, e := range f.entries {
		if e.Channel == channel {
			out = append(out, e)
		}
	}
	return out
}

type fakeNotificationStore struct {
	rows []models.Notification
}

func (f *fakeNotificationStore) Create(n *models.Notification) error {
	f.rows = append(f.rows, *n)
	return nil
}

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

// permissiveUserStore answers every lookup with an owner whose
// notification preferences are all on, for tests exercising channel
// dispatch rather than preferences.
type permissiveUserStore struct{}

func (permissiveUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	return &models.User{
		ID:               id,
		Email:            "owner@y.com",
		EmailReminders:   true,
		AutoWishEnabled:  true,
		AppNotifications: true,
	}, nil
}

type sentMail struct {
	to, subject, body string
}

type fakeEmailSender struct {
	sent    []sentMail
	failFor string // addresses that get a transport error
	panicOn string // addresses that make the transport panic
}

func (f *fakeEmailSender) Send(to, subject, body string) error {
	if to == f.panicOn {
		panic("smtp client gone")
	}
	if to == f.failFor {
		return errors.New("550 mailbox unavailable")
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

func newTestService(events *fakeEventStore, logs *fakeLogStore, email *fakeEmailSender, users UserStore, now time.Time) (*WishService, *fakeNotificationStore) {
	notifs := &fakeNotificationStore{}
	if users == nil {
		users = permissiveUserStore{}
	}
	svc := NewWishService(events, logs, notifs, users, email, PlaceholderSMSSender{})
	svc.Now = func() time.Time { return now }
	return svc, notifs
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func autoWishEvent(userID uuid.UUID, name string, eventDate time.Time, channels ...string) models.Event {
	return models.Event{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            name,
		EventType:       "birthday",
		EventDate:       eventDate,
		Channels:        channels,
		AutoWishEnabled: true,
		IsActive:        true,
	}
}

func TestDueEvents(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()

	mom := autoWishEvent(userA, "Mom", day(2020, time.May, 15), "email")
	mom.Email = "x@y.com"
	dad := autoWishEvent(userA, "Dad", day(1990, time.May, 15), "email")
	dad.Email = "d@y.com"
	friend := autoWishEvent(userB, "Sam", day(2001, time.May, 16), "email")
	friend.Email = "s@y.com"

	events := &fakeEventStore{events: []models.Event{mom, dad, friend}}

	t.Run("ExactMonthDayMatchIgnoresStoredYear", func(t *testing.T) {
		svc, _ := newTestService(events, &fakeLogStore{}, &fakeEmailSender{}, nil, day(2025, time.May, 15))

		grouped, err := svc.DueEvents(0)
		require.NoError(t, err)
		require.Len(t, grouped, 1)
		require.Len(t, grouped[userA], 2)
	})

	t.Run("DayBeforeIsNotDueTodayButDueTomorrow", func(t *testing.T) {
		svc, _ := newTestService(events, &fakeLogStore{}, &fakeEmailSender{}, nil, day(2025, time.May, 14))

		today, err := svc.DueEvents(0)
		require.NoError(t, err)
		require.Empty(t, today)

		tomorrow, err := svc.DueEvents(1)
		require.NoError(t, err)
		require.Len(t, tomorrow[userA], 2)
	})

	t.Run("TomorrowOffsetCrossesIntoNextDay", func(t *testing.T) {
		svc, _ := newTestService(events, &fakeLogStore{}, &fakeEmailSender{}, nil, day(2025, time.May, 15))

		tomorrow, err := svc.DueEvents(1)
		require.NoError(t, err)
		require.Len(t, tomorrow, 1)
		require.Len(t, tomorrow[userB], 1)
	})

	t.Run("StoreFailurePropagates", func(t *testing.T) {
		broken := &fakeEventStore{err: errors.New("connection refused")}
		svc, _ := newTestService(broken, &fakeLogStore{}, &fakeEmailSender{}, nil, day(2025, time.May, 15))

		_, err := svc.DueEvents(0)
		require.Error(t, err)
	})
}

func TestProcessToday(t *testing.T) {
	now := day(2025, time.May, 15)
	userID := uuid.New()

	t.Run("EmailSuccessWritesOneLog", func(t *testing.T) {
		event := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email")
		event.Email = "x@y.com"
		event.CustomMessage = "Happy birthday, Mom!"

		logs := &fakeLogStore{}
		email := &fakeEmailSender{}
		svc, _ := newTestService(&fakeEventStore{events: []models.Event{event}}, logs, email, nil, now)

		summary, err := svc.ProcessToday()
		require.NoError(t, err)
		require.Equal(t, 1, summary.Processed)
		require.True(t, summary.Results[0].Success)

		require.Len(t, logs.entries, 1)
		require.Equal(t, models.StatusSuccess, logs.entries[0].Status)
		require.Equal(t, "Happy birthday, Mom!", logs.entries[0].Message)
		require.Len(t, email.sent, 1)
		require.Equal(t, "x@y.com", email.sent[0].to)
	})

	t.Run("SMSIsAlwaysNotImplemented", func(t *testing.T) {
		event := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "sms")
		event.Phone = "+15551234567"

		logs := &fakeLogStore{}
		svc, _ := newTestService(&fakeEventStore{events: []models.Event{event}}, logs, &fakeEmailSender{}, nil, now)

		summary, err := svc.ProcessToday()
		require.NoError(t, err)
		require.True(t, summary.Results[0].Success)

		require.Len(t, logs.entries, 1)
		require.Equal(t, models.StatusNotImplemented, logs.entries[0].Status)
		require.NotEmpty(t, logs.entries[0].ErrorDetails)
	})

	t.Run("AppChannelCreatesNotification", func(t *testing.T) {
		event := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "app")

		logs := &fakeLogStore{}
		svc, notifs := newTestService(&fakeEventStore{events: []models.Event{event}}, logs, &fakeEmailSender{}, nil, now)

		_, err := svc.ProcessToday()
		require.NoError(t, err)
		require.Len(t, logs.entries, 1)
		require.Equal(t, models.StatusSuccess, logs.entries[0].Status)
		require.Len(t, notifs.rows, 1)
		require.Equal(t, "wish", notifs.rows[0].Type)
	})

	t.Run("MissingContactLogsFailed", func(t *testing.T) {
		event := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email")
		// no email address set

		logs := &fakeLogStore{}
		svc, _ := newTestService(&fakeEventStore{events: []models.Event{event}}, logs, &fakeEmailSender{}, nil, now)

		summary, err := svc.ProcessToday()
		require.NoError(t, err)
		require.False(t, summary.Results[0].Success)
		require.Len(t, logs.entries, 1)
		require.Equal(t, models.StatusFailed, logs.entries[0].Status)
		require.Contains(t, logs.entries[0].ErrorDetails, "missing email")
	})

	t.Run("TransportErrorLogsFailedWithProviderMessage", func(t *testing.T) {
		event := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email")
		event.Email = "x@y.com"

		logs := &fakeLogStore{}
		svc, _ := newTestService(&fakeEventStore{events: []models.Event{event}}, logs,
			&fakeEmailSender{failFor: "x@y.com"}, nil, now)

		summary, err := svc.ProcessToday()
		require.NoError(t, err)
		require.False(t, summary.Results[0].Success)
		require.Equal(t, models.StatusFailed, logs.entries[0].Status)
		require.Contains(t, logs.entries[0].ErrorDetails, "550")
	})

	t.Run("PanicIsContainedAndBatchContinues", func(t *testing.T) {
		eventA := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email", "sms")
		eventA.Email = "boom@y.com"
		eventA.Phone = "+15551234567"
		eventB := autoWishEvent(uuid.New(), "Sam", day(2001, time.May, 15), "email")
		eventB.Email = "ok@y.com"

		logs := &fakeLogStore{}
		email := &fakeEmailSender{panicOn: "boom@y.com"}
		svc, _ := newTestService(&fakeEventStore{events: []models.Event{eventA, eventB}}, logs, email, nil, now)

		summary, err := svc.ProcessToday()
		require.NoError(t, err)
		require.Equal(t, 2, summary.Processed)

		// Event A's email attempt is classified error; its sms channel
		// and event B's email still produced log entries.
		require.Len(t, logs.entries, 3)
		emailLogs := logs.byChannel("email")
		require.Len(t, emailLogs, 2)
		var statuses []string
		for _, l := range emailLogs {
			statuses = append(statuses, l.Status)
		}
		require.ElementsMatch(t, []string{models.StatusError, models.StatusSuccess}, statuses)
		require.Equal(t, models.StatusNotImplemented, logs.byChannel("sms")[0].Status)
		require.Len(t, email.sent, 1)
	})

	t.Run("UserMasterSwitchOffSkipsDispatch", func(t *testing.T) {
		event := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email")
		event.Email = "x@y.com"

		// Event-level flag on, owner opted out of auto-wish
		owner := &models.User{ID: userID, Email: "owner@y.com", AutoWishEnabled: false}
		users := &fakeUserStore{users: map[uuid.UUID]*models.User{userID: owner}}

		logs := &fakeLogStore{}
		email := &fakeEmailSender{}
		svc, _ := newTestService(&fakeEventStore{events: []models.Event{event}}, logs, email, users, now)

		summary, err := svc.ProcessToday()
		require.NoError(t, err)
		require.Equal(t, 0, summary.Processed)
		require.Empty(t, logs.entries)
		require.Empty(t, email.sent)
	})

	t.Run("UnknownOwnerSendsNothingAndReportsFailure", func(t *testing.T) {
		event := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email")
		event.Email = "x@y.com"

		users := &fakeUserStore{users: map[uuid.UUID]*models.User{}}
		logs := &fakeLogStore{}
		email := &fakeEmailSender{}
		svc, _ := newTestService(&fakeEventStore{events: []models.Event{event}}, logs, email, users, now)

		summary, err := svc.ProcessToday()
		require.NoError(t, err)
		require.Equal(t, 1, summary.Processed)
		require.False(t, summary.Results[0].Success)
		require.NotEmpty(t, summary.Results[0].Error)
		require.Empty(t, email.sent)
	})

	t.Run("AutoWishDisabledIsSkippedEntirely", func(t *testing.T) {
		event := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email")
		event.Email = "x@y.com"
		event.AutoWishEnabled = false

		logs := &fakeLogStore{}
		svc, _ := newTestService(&fakeEventStore{events: []models.Event{event}}, logs, &fakeEmailSender{}, nil, now)

		summary, err := svc.ProcessToday()
		require.NoError(t, err)
		require.Equal(t, 0, summary.Processed)
		require.Empty(t, logs.entries)
	})

	t.Run("LogWriteFailureDoesNotAbort", func(t *testing.T) {
		event := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email")
		event.Email = "x@y.com"

		logs := &fakeLogStore{err: errors.New("insert rejected")}
		email := &fakeEmailSender{}
		svc, _ := newTestService(&fakeEventStore{events: []models.Event{event}}, logs, email, nil, now)

		summary, err := svc.ProcessToday()
		require.NoError(t, err)
		require.True(t, summary.Results[0].Success)
		require.Len(t, email.sent, 1)
	})

	t.Run("DefaultWishMessage", func(t *testing.T) {
		event := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email")
		event.Email = "x@y.com"

		logs := &fakeLogStore{}
		svc, _ := newTestService(&fakeEventStore{events: []models.Event{event}}, logs, &fakeEmailSender{}, nil, now)

		_, err := svc.ProcessToday()
		require.NoError(t, err)
		require.Equal(t, "Wishing you a wonderful birthday!", logs.entries[0].Message)
	})
}

func TestProcessTomorrow(t *testing.T) {
	now := day(2025, time.May, 14)
	userID := uuid.New()

	event := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email")
	event.Email = "x@y.com"

	owner := &models.User{
		ID:               userID,
		Email:            "owner@y.com",
		Name:             "Alex",
		EmailReminders:   true,
		AppNotifications: true,
	}

	t.Run("RemindsOwnerByEmailAndInApp", func(t *testing.T) {
		email := &fakeEmailSender{}
		users := &fakeUserStore{users: map[uuid.UUID]*models.User{userID: owner}}
		svc, notifs := newTestService(&fakeEventStore{events: []models.Event{event}}, &fakeLogStore{}, email, users, now)

		summary, err := svc.ProcessTomorrow()
		require.NoError(t, err)
		require.Equal(t, 1, summary.Processed)
		require.True(t, summary.Results[0].Success)

		require.Len(t, email.sent, 1)
		require.Equal(t, "owner@y.com", email.sent[0].to)
		require.Contains(t, email.sent[0].subject, "Upcoming birthday")

		require.Len(t, notifs.rows, 1)
		require.Equal(t, "reminder", notifs.rows[0].Type)
	})

	t.Run("PreferencesSuppressChannels", func(t *testing.T) {
		quiet := *owner
		quiet.EmailReminders = false
		quiet.AppNotifications = false

		email := &fakeEmailSender{}
		users := &fakeUserStore{users: map[uuid.UUID]*models.User{userID: &quiet}}
		svc, notifs := newTestService(&fakeEventStore{events: []models.Event{event}}, &fakeLogStore{}, email, users, now)

		summary, err := svc.ProcessTomorrow()
		require.NoError(t, err)
		require.True(t, summary.Results[0].Success)
		require.Empty(t, email.sent)
		require.Empty(t, notifs.rows)
	})

	t.Run("UnknownOwnerReportsFailureAndContinues", func(t *testing.T) {
		email := &fakeEmailSender{}
		users := &fakeUserStore{users: map[uuid.UUID]*models.User{}}
		svc, _ := newTestService(&fakeEventStore{events: []models.Event{event}}, &fakeLogStore{}, email, users, now)

		summary, err := svc.ProcessTomorrow()
		require.NoError(t, err)
		require.Equal(t, 1, summary.Processed)
		require.False(t, summary.Results[0].Success)
		require.NotEmpty(t, summary.Results[0].Error)
	})
}

func TestUpcoming(t *testing.T) {
	userID := uuid.New()

	t.Run("WindowFilterAndAscendingSort", func(t *testing.T) {
		now := day(2025, time.May, 14)
		mom := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email")     // 1 day out
		june := autoWishEvent(userID, "June", day(2019, time.June, 1), "email")   // 18 days out
		past := autoWishEvent(userID, "Past", day(2018, time.April, 20), "email") // ~11 months out

		upcoming := Upcoming([]models.Event{june, past, mom}, now, 30)
		require.Len(t, upcoming, 2)
		require.Equal(t, "Mom", upcoming[0].Name)
		require.Equal(t, "June", upcoming[1].Name)
	})

	t.Run("TodayCountsAsUpcoming", func(t *testing.T) {
		now := time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)
		mom := autoWishEvent(userID, "Mom", day(2020, time.May, 15), "email")

		upcoming := Upcoming([]models.Event{mom}, now, 30)
		require.Len(t, upcoming, 1)
	})

	t.Run("YearRolloverSortsAcrossNewYear", func(t *testing.T) {
		now := day(2025, time.December, 30)
		nye := autoWishEvent(userID, "NYE", day(2000, time.December, 31), "email")
		jan := autoWishEvent(userID, "Jan", day(2000, time.January, 2), "email")

		upcoming := Upcoming([]models.Event{jan, nye}, now, 30)
		require.Len(t, upcoming, 2)
		require.Equal(t, "NYE", upcoming[0].Name)
		require.Equal(t, "Jan", upcoming[1].Name)
	})
}
