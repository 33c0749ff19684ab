package shipment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"amo_checkbox/internal/config"
	"amo_checkbox/internal/domain/service/shipment"
	"amo_checkbox/internal/infrastructure/novaposhta"
)

type fakeNovaPoshta struct {
	responses map[string]novaposhta.StatusResponse
	errs      map[string]error
	calls     []string
}

func (f *fakeNovaPoshta) GetTrackingStatus(
	_ context.Context, apiKey, _ string,
) (novaposhta.StatusResponse, error) {
	f.calls = append(f.calls, apiKey)
	if err := f.errs[apiKey]; err != nil {
		return novaposhta.StatusResponse{}, err
	}
	return f.responses[apiKey], nil
}

func found(sender string) novaposhta.StatusResponse {
	return novaposhta.StatusResponse{
		Success: true,
		Documents: []novaposhta.StatusDocument{
			{Number: "20450000000001", Status: "Прибув на відділення", SenderDescription: sender},
		},
	}
}

func notFound() novaposhta.StatusResponse {
	return novaposhta.StatusResponse{Success: false, Errors: []string{"Document not found"}}
}

func accounts() []config.CourierAccount {
	return []config.CourierAccount{
		{ID: "1", APIKey: "key-1", SenderName: "ФОП Перший"},
		{ID: "2", APIKey: "key-2", SenderName: "ФОП Другий"},
	}
}

func TestResolver_ResolveProfile(t *testing.T) {
	t.Run("совпадение на первом аккаунте", func(t *testing.T) {
		np := &fakeNovaPoshta{responses: map[string]novaposhta.StatusResponse{
			"key-1": found("ФОП Перший"),
		}}
		resolver := shipment.NewResolver(np, accounts())

		profileID, ok := resolver.ResolveProfile(context.Background(), "20450000000001")
		require.True(t, ok)
		require.Equal(t, "1", profileID)
		// Второй аккаунт не опрашивается после совпадения.
		require.Equal(t, []string{"key-1"}, np.calls)
	})

	t.Run("первый аккаунт мимо, второй совпадает", func(t *testing.T) {
		np := &fakeNovaPoshta{responses: map[string]novaposhta.StatusResponse{
			"key-1": notFound(),
			"key-2": found("ФОП Другий"),
		}}
		resolver := shipment.NewResolver(np, accounts())

		profileID, ok := resolver.ResolveProfile(context.Background(), "20450000000001")
		require.True(t, ok)
		require.Equal(t, "2", profileID)
		require.Equal(t, []string{"key-1", "key-2"}, np.calls)
	})

	t.Run("имя отправителя сравнивается без регистра и пробелов", func(t *testing.T) {
		np := &fakeNovaPoshta{responses: map[string]novaposhta.StatusResponse{
			"key-1": found("  фоп перший  "),
		}}
		resolver := shipment.NewResolver(np, accounts())

		profileID, ok := resolver.ResolveProfile(context.Background(), " 20450000000001 ")
		require.True(t, ok)
		require.Equal(t, "1", profileID)
	})

	t.Run("чужой отправитель не совпадает", func(t *testing.T) {
		np := &fakeNovaPoshta{responses: map[string]novaposhta.StatusResponse{
			"key-1": found("ФОП Чужий"),
			"key-2": found("ФОП Чужий"),
		}}
		resolver := shipment.NewResolver(np, accounts())

		_, ok := resolver.ResolveProfile(context.Background(), "20450000000001")
		require.False(t, ok)
	})

	t.Run("ошибка запроса трактуется как несовпадение", func(t *testing.T) {
		np := &fakeNovaPoshta{
			errs:      map[string]error{"key-1": errors.New("timeout")},
			responses: map[string]novaposhta.StatusResponse{"key-2": found("ФОП Другий")},
		}
		resolver := shipment.NewResolver(np, accounts())

		profileID, ok := resolver.ResolveProfile(context.Background(), "20450000000001")
		require.True(t, ok)
		require.Equal(t, "2", profileID)
	})

	t.Run("аккаунт без имени отправителя не совпадает никогда", func(t *testing.T) {
		np := &fakeNovaPoshta{responses: map[string]novaposhta.StatusResponse{
			"key-1": found(""),
		}}
		resolver := shipment.NewResolver(np, []config.CourierAccount{
			{ID: "1", APIKey: "key-1", SenderName: ""},
		})

		_, ok := resolver.ResolveProfile(context.Background(), "20450000000001")
		require.False(t, ok)
		// Запрос даже не отправляется.
		require.Empty(t, np.calls)
	})

	t.Run("пустая ТТН", func(t *testing.T) {
		np := &fakeNovaPoshta{}
		resolver := shipment.NewResolver(np, accounts())

		_, ok := resolver.ResolveProfile(context.Background(), "   ")
		require.False(t, ok)
		require.Empty(t, np.calls)
	})
}
