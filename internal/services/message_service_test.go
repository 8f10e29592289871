package services

import (
	"context"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Gopher0727/Messenger/internal/events"
	"github.com/Gopher0727/Messenger/internal/identity"
	"github.com/Gopher0727/Messenger/internal/models"
	apperrors "github.com/Gopher0727/Messenger/pkg/errors"
	"github.com/Gopher0727/Messenger/utils/snowflake"
)

// fakeMessageRepo is an in-memory MessageRepository.
type fakeMessageRepo struct {
	messages map[int64]*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[int64]*models.Message)}
}

func (f *fakeMessageRepo) Create(_ context.Context, message *models.Message) error {
	f.messages[message.ID] = message
	return nil
}

func (f *fakeMessageRepo) GetByID(_ context.Context, id int64) (*models.Message, error) {
	message, ok := f.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return message, nil
}

func (f *fakeMessageRepo) GetActiveByID(_ context.Context, id int64) (*models.Message, error) {
	message, ok := f.messages[id]
	if !ok || !message.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return message, nil
}

func (f *fakeMessageRepo) Outgoing(_ context.Context, senderID uint, draftOnly bool, limit, offset int) ([]models.Message, int64, error) {
	var out []models.Message
	for _, m := range f.messages {
		if m.SenderID != senderID || !m.Active {
			continue
		}
		if draftOnly && !m.Draft {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMessageRepo) Incoming(_ context.Context, receiverID uint, onlyNew bool, limit, offset int) ([]models.Message, int64, error) {
	var out []models.Message
	for _, m := range f.messages {
		if !m.Active || m.Draft {
			continue
		}
		for _, status := range m.Statuses {
			if status.ReceiverID != receiverID {
				continue
			}
			if onlyNew && status.Value != models.StatusNew {
				continue
			}
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func newTestMessageService(t *testing.T, messages *fakeMessageRepo, groups *fakeGroupRepo, producer *events.Producer) *MessageService {
	t.Helper()
	gen, err := snowflake.NewGenerator(1)
	require.NoError(t, err)
	resolver := identity.NewStaticResolver(map[uint]identity.Profile{
		10: {ID: 10, Username: "alice"},
	})
	return NewMessageService(messages, groups, gen, resolver, producer, testLogger())
}

// seedGroup creates a multiple group with the given active members.
func seedGroup(t *testing.T, groups *fakeGroupRepo, memberIDs ...uint) *models.Group {
	t.Helper()
	name := "team"
	group := &models.Group{Name: &name, Type: models.GroupMultiple, Active: true}
	require.NoError(t, groups.Create(context.Background(), group))
	for _, id := range memberIDs {
		require.NoError(t, groups.CreateMembership(context.Background(), &models.GroupMembership{
			GroupID: group.ID, UserID: id, Active: true,
		}))
	}
	return group
}

func TestCreateMessageFanOut(t *testing.T) {
	ctx := context.Background()
	messages := newFakeMessageRepo()
	groups := newFakeGroupRepo()
	group := seedGroup(t, groups, 10, 20, 30)
	svc := newTestMessageService(t, messages, groups, nil)

	message, err := svc.CreateMessage(ctx, 10, &CreateMessageRequest{
		Variant: models.VariantText,
		GroupID: group.ID,
		Body:    "hello",
	})
	require.NoError(t, err)
	assert.NotZero(t, message.ID)
	assert.True(t, message.Active)
	assert.False(t, message.Draft)

	require.NotNil(t, message.Text)
	assert.Equal(t, models.DefaultTextContentType, message.Text.ContentType)
	assert.Equal(t, "hello", message.Text.Value)

	// one status per member except the sender, all new
	require.Len(t, message.Statuses, 2)
	receivers := map[uint]models.StatusValue{}
	for _, status := range message.Statuses {
		receivers[status.ReceiverID] = status.Value
	}
	assert.Equal(t, models.StatusNew, receivers[20])
	assert.Equal(t, models.StatusNew, receivers[30])
	assert.NotContains(t, receivers, uint(10))
}

func TestCreateMessageValidation(t *testing.T) {
	ctx := context.Background()
	messages := newFakeMessageRepo()
	groups := newFakeGroupRepo()
	group := seedGroup(t, groups, 10, 20)
	svc := newTestMessageService(t, messages, groups, nil)

	tests := []struct {
		name string
		req  CreateMessageRequest
		code apperrors.Code
	}{
		{
			"unknown variant",
			CreateMessageRequest{Variant: "video", GroupID: group.ID, Body: "x"},
			apperrors.CodeInvalidArgument,
		},
		{
			"text without body",
			CreateMessageRequest{Variant: models.VariantText, GroupID: group.ID},
			apperrors.CodeInvalidArgument,
		},
		{
			"file without content type",
			CreateMessageRequest{Variant: models.VariantFile, GroupID: group.ID, Resource: "https://cdn.example.com/a.png"},
			apperrors.CodeInvalidArgument,
		},
		{
			"file without resource",
			CreateMessageRequest{Variant: models.VariantFile, GroupID: group.ID, ContentType: "image/png"},
			apperrors.CodeInvalidArgument,
		},
		{
			"url with malformed resource",
			CreateMessageRequest{Variant: models.VariantURL, GroupID: group.ID, ContentType: "text/html", Resource: "not a url"},
			apperrors.CodeInvalidArgument,
		},
		{
			"unknown group",
			CreateMessageRequest{Variant: models.VariantText, GroupID: 999, Body: "x"},
			apperrors.CodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMessage(ctx, 10, &tt.req)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestCreateMessageVariantPayloads(t *testing.T) {
	ctx := context.Background()
	messages := newFakeMessageRepo()
	groups := newFakeGroupRepo()
	group := seedGroup(t, groups, 10, 20)
	svc := newTestMessageService(t, messages, groups, nil)

	file, err := svc.CreateMessage(ctx, 10, &CreateMessageRequest{
		Variant:     models.VariantFile,
		GroupID:     group.ID,
		ContentType: "image/png",
		Resource:    "https://cdn.example.com/a.png",
	})
	require.NoError(t, err)
	require.NotNil(t, file.File)
	assert.Nil(t, file.Text)
	contentType, value := file.Payload()
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, "https://cdn.example.com/a.png", value)

	link, err := svc.CreateMessage(ctx, 10, &CreateMessageRequest{
		Variant:     models.VariantURL,
		GroupID:     group.ID,
		ContentType: "text/html",
		Resource:    "https://example.com/post/1",
	})
	require.NoError(t, err)
	require.NotNil(t, link.URL)
	assert.Nil(t, link.File)
}

func TestCreateMessagePublishesEvent(t *testing.T) {
	ctx := context.Background()
	messages := newFakeMessageRepo()
	groups := newFakeGroupRepo()
	group := seedGroup(t, groups, 10, 20)

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, config)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func([]byte) error { return nil })
	svc := newTestMessageService(t, messages, groups, events.NewProducerWith(mock, "messenger.events"))

	_, err := svc.CreateMessage(ctx, 10, &CreateMessageRequest{
		Variant: models.VariantText,
		GroupID: group.ID,
		Body:    "hello",
	})
	require.NoError(t, err)
	require.NoError(t, mock.Close())
}

func TestCreateMessageDraft(t *testing.T) {
	ctx := context.Background()
	messages := newFakeMessageRepo()
	groups := newFakeGroupRepo()
	group := seedGroup(t, groups, 10, 20)

	// the mock fails the test on any unexpected send
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, config)
	svc := newTestMessageService(t, messages, groups, events.NewProducerWith(mock, "messenger.events"))

	draft, err := svc.CreateMessage(ctx, 10, &CreateMessageRequest{
		Variant: models.VariantText,
		GroupID: group.ID,
		Body:    "wip",
		Draft:   true,
	})
	require.NoError(t, err)
	assert.True(t, draft.Draft)
	// statuses exist up front so sending the draft later needs no fan-out
	assert.Len(t, draft.Statuses, 1)
	require.NoError(t, mock.Close())

	t.Run("drafts stay out of incoming", func(t *testing.T) {
		incoming, total, err := svc.IncomingMessages(ctx, 20, 1, 50)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, incoming)
	})

	t.Run("drafts are a subset of outgoing", func(t *testing.T) {
		drafts, _, err := svc.DraftMessages(ctx, 10, 1, 50)
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Equal(t, draft.ID, drafts[0].ID)

		// outgoing is everything the sender wrote, drafts included
		outgoing, _, err := svc.OutgoingMessages(ctx, 10, 1, 50)
		require.NoError(t, err)
		require.Len(t, outgoing, 1)
		assert.Equal(t, draft.ID, outgoing[0].ID)
	})
}

func TestIncomingAndNewMessages(t *testing.T) {
	ctx := context.Background()
	messages := newFakeMessageRepo()
	groups := newFakeGroupRepo()
	group := seedGroup(t, groups, 10, 20)
	svc := newTestMessageService(t, messages, groups, nil)

	message, err := svc.CreateMessage(ctx, 10, &CreateMessageRequest{
		Variant: models.VariantText,
		GroupID: group.ID,
		Body:    "hello",
	})
	require.NoError(t, err)

	incoming, total, err := svc.IncomingMessages(ctx, 20, 1, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, incoming, 1)
	assert.Equal(t, message.ID, incoming[0].ID)

	fresh, _, err := svc.NewMessages(ctx, 20, 1, 50)
	require.NoError(t, err)
	require.Len(t, fresh, 1)

	// reading the message drops it from the new view but not from incoming
	messages.messages[message.ID].Statuses[0].Value = models.StatusRead

	fresh, _, err = svc.NewMessages(ctx, 20, 1, 50)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	incoming, _, err = svc.IncomingMessages(ctx, 20, 1, 50)
	require.NoError(t, err)
	assert.Len(t, incoming, 1)
}

func TestGetMessage(t *testing.T) {
	ctx := context.Background()
	messages := newFakeMessageRepo()
	groups := newFakeGroupRepo()
	group := seedGroup(t, groups, 10, 20)
	svc := newTestMessageService(t, messages, groups, nil)

	message, err := svc.CreateMessage(ctx, 10, &CreateMessageRequest{
		Variant: models.VariantText,
		GroupID: group.ID,
		Body:    "hello",
	})
	require.NoError(t, err)

	got, err := svc.GetMessage(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, message.ID, got.ID)

	_, err = svc.GetMessage(ctx, message.ID+1)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestResolveUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestMessageService(t, newFakeMessageRepo(), newFakeGroupRepo(), nil)

	profile, err := svc.ResolveUser(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	_, err = svc.ResolveUser(ctx, 99)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnresolved))
}
