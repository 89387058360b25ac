package svc

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"clipshare/cfg"
	"clipshare/metrics"
	"clipshare/pkg/domain"
	"clipshare/svc/db"
	"clipshare/svc/util"
)

// Clipboard owns item CRUD and the share-code lifecycle. All operations are
// scoped to the owning user; the database never returns another owner's row.
type Clipboard struct {
	db  *db.SQLite
	cfg *cfg.Cfg
}

func NewClipboard(sqlDB *db.SQLite, c *cfg.Cfg) *Clipboard {
	if sqlDB == nil || c == nil {
		panic("clipboard service: nil dependency (db or cfg)")
	}
	return &Clipboard{db: sqlDB, cfg: c}
}

func (c *Clipboard) List(ctx context.Context, ownerID int64) ([]domain.ClipboardItem, error) {
	return c.db.ItemsByOwner(ctx, ownerID)
}

func (c *Clipboard) Get(ctx context.Context, ownerID, id int64) (*domain.ClipboardItem, error) {
	return c.db.ItemByID(ctx, ownerID, id)
}

func (c *Clipboard) Create(ctx context.Context, ownerID int64, content string) (*domain.ClipboardItem, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrContentRequired
	}
	if int64(len(content)) > c.cfg.MaxContentSize {
		return nil, domain.ErrContentTooLarge
	}
	item, err := c.db.CreateItem(ctx, ownerID, content)
	if err != nil {
		return nil, err
	}
	metrics.ItemCreated.Inc()
	return item, nil
}

func (c *Clipboard) Update(ctx context.Context, ownerID, id int64, content string) (*domain.ClipboardItem, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrContentRequired
	}
	if int64(len(content)) > c.cfg.MaxContentSize {
		return nil, domain.ErrContentTooLarge
	}
	item, err := c.db.UpdateItemContent(ctx, ownerID, id, content)
	if err != nil {
		return nil, err
	}
	metrics.ItemUpdated.Inc()
	return item, nil
}

func (c *Clipboard) Delete(ctx context.Context, ownerID, id int64) error {
	if err := c.db.DeleteItem(ctx, ownerID, id); err != nil {
		return err
	}
	metrics.ItemDeleted.Inc()
	return nil
}

// Share issues a fresh code for the item. Re-sharing an already shared item
// replaces its code, so any previously handed out code stops resolving.
func (c *Clipboard) Share(ctx context.Context, ownerID, id int64) (string, error) {
	if _, err := c.db.ItemByID(ctx, ownerID, id); err != nil {
		return "", err
	}
	code, err := util.GenShareCode(c.cfg.ShareCodeLength, func(candidate string) (bool, error) {
		return c.db.ShareCodeExists(ctx, candidate)
	})
	if err != nil {
		util.Error().Err(err).Int64("item_id", id).Msg("share code generation failed")
		return "", domain.ErrCodeGeneration
	}
	if err := c.db.SetShareCode(ctx, ownerID, id, code); err != nil {
		return "", err
	}
	metrics.ShareIssued.Inc()
	util.Info().Int64("item_id", id).Msg("share code issued")
	return code, nil
}

func (c *Clipboard) Unshare(ctx context.Context, ownerID, id int64) error {
	if err := c.db.ClearShareCode(ctx, ownerID, id); err != nil {
		return err
	}
	metrics.ShareRevoked.Inc()
	return nil
}

// ResolveShare validates a code against live state only; an unshared item
// stops resolving the moment its code is cleared.
func (c *Clipboard) ResolveShare(ctx context.Context, code string) (*domain.SharedView, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidShareCode
	}
	view, err := c.db.ViewByShareCode(ctx, code)
	if err != nil {
		if errors.Cause(err) == domain.ErrInvalidShareCode {
			metrics.ShareResolved.WithLabelValues("invalid").Inc()
		}
		return nil, err
	}
	metrics.ShareResolved.WithLabelValues("ok").Inc()
	return view, nil
}
