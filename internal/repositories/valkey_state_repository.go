package repositories

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// valkeyStateRepository keeps each field under "<prefix>:<session>:<key>".
type valkeyStateRepository struct {
	client valkey.Client
	prefix string
	keys   []string
}

// NewValkeyStateRepository needs the full list of field keys so DeleteSession
// can remove them without a SCAN.
func NewValkeyStateRepository(client valkey.Client, prefix string, keys []string) PlannerStateRepository {
	return &valkeyStateRepository{client: client, prefix: prefix, keys: keys}
}

func (r *valkeyStateRepository) storageKey(sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, sessionID, key)
}

func (r *valkeyStateRepository) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	cmd := r.client.Do(ctx, r.client.B().Get().Key(r.storageKey(sessionID, key)).Build())
	if err := cmd.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	v, err := cmd.ToString()
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *valkeyStateRepository) Set(ctx context.Context, sessionID, key, value string) error {
	cmd := r.client.Do(ctx, r.client.B().Set().Key(r.storageKey(sessionID, key)).Value(value).Build())
	return cmd.Error()
}

func (r *valkeyStateRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if len(r.keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(r.keys))
	for _, k := range r.keys {
		full = append(full, r.storageKey(sessionID, k))
	}
	return r.client.Do(ctx, r.client.B().Del().Key(full...).Build()).Error()
}
