// Package credentials caches GetFleetRoleCredentials results per role ARN so
// repeated calls from the same process don't each round-trip to the
// gateway, following the client-constructor-plus-narrow-interface idiom
// from internal/recordings/storage_s3.go's S3API.
package credentials

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rjsadow/gamelift-server-sdk-go/internal/gerrors"
	"github.com/rjsadow/gamelift-server-sdk-go/model"
)

// freshnessWindow is how far ahead of expiration a cached credential must
// still be to be handed out instead of refreshed.
const freshnessWindow = 15 * time.Minute

// maxRoleSessionNameLength is the longest role session name AssumeRole (and
// this cache) will accept.
const maxRoleSessionNameLength = 64

// Fetcher is satisfied by *driver.Driver.
type Fetcher interface {
	Send(ctx context.Context, action model.Action, payload model.Request) (json.RawMessage, error)
}

// Cache holds the most recently fetched credentials for each role ARN.
// fleetID and hostID seed the synthesized role session name when the caller
// doesn't supply one.
type Cache struct {
	fetcher         Fetcher
	fleetID, hostID string

	mu      sync.Mutex
	entries map[string]model.GetFleetRoleCredentialsResult
}

// New builds an empty Cache backed by fetcher.
func New(fetcher Fetcher, fleetID, hostID string) *Cache {
	return &Cache{
		fetcher: fetcher,
		fleetID: fleetID,
		hostID:  hostID,
		entries: make(map[string]model.GetFleetRoleCredentialsResult),
	}
}

// Get returns cached credentials for roleArn if they remain fresh for at
// least freshnessWindow, otherwise it fetches new ones from the gateway and
// caches them before returning.
func (c *Cache) Get(ctx context.Context, roleArn, roleSessionName string) (model.GetFleetRoleCredentialsResult, error) {
	if roleSessionName == "" {
		roleSessionName = c.fleetID + "-" + c.hostID
		if len(roleSessionName) > maxRoleSessionNameLength {
			roleSessionName = roleSessionName[:maxRoleSessionNameLength]
		}
	} else if len(roleSessionName) > maxRoleSessionNameLength {
		return model.GetFleetRoleCredentialsResult{}, &gerrors.BadRequestError{Message: "Role session name cannot be over 64 chars"}
	}

	if cached, ok := c.lookup(roleArn); ok {
		return cached, nil
	}
	c.evict(roleArn)

	raw, err := c.fetcher.Send(ctx, model.ActionGetFleetRoleCredentials, model.GetFleetRoleCredentialsRequest{
		RoleArn:         roleArn,
		RoleSessionName: roleSessionName,
	})
	if err != nil {
		return model.GetFleetRoleCredentialsResult{}, err
	}

	var result model.GetFleetRoleCredentialsResult
	if err := model.DecodePayload(raw, &result); err != nil {
		return model.GetFleetRoleCredentialsResult{}, &gerrors.InvalidJSONError{Cause: err}
	}
	if result.AccessKeyID == "" {
		return model.GetFleetRoleCredentialsResult{}, &gerrors.BadRequestError{Message: "SDK is not running on managed EC2"}
	}

	c.mu.Lock()
	c.entries[roleArn] = result
	c.mu.Unlock()

	return result, nil
}

func (c *Cache) lookup(roleArn string) (model.GetFleetRoleCredentialsResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.entries[roleArn]
	if !ok {
		return model.GetFleetRoleCredentialsResult{}, false
	}
	if time.Until(cached.Expiration) <= freshnessWindow {
		return model.GetFleetRoleCredentialsResult{}, false
	}
	return cached, true
}

func (c *Cache) evict(roleArn string) {
	c.mu.Lock()
	delete(c.entries, roleArn)
	c.mu.Unlock()
}
