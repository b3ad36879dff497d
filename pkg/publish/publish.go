package publish

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/enescakir/emoji"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/pagecast/pagecast/pkg/chain"
	"github.com/pagecast/pagecast/pkg/page"
)

// Status is the discrete progress state a lifecycle operation is in.
// Callers observe these to drive feedback, not to synchronize correctness.
type Status string

const (
	StatusIdle              Status = "idle"
	StatusUploadingContent  Status = "uploadingContent"
	StatusAwaitingSignature Status = "awaitingSignature"
	StatusConfirmingOnChain Status = "confirmingOnChain"
	StatusUnpinningOld      Status = "unpinningOld"
	StatusSuccess           Status = "success"
	StatusError             Status = "error"
)

// ContentStore is the narrow blob-store surface the lifecycle needs.
type ContentStore interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	PutJSON(ctx context.Context, doc any) (string, error)
	GetJSON(ctx context.Context, id string, into any) error
	Unpin(ctx context.Context, id string) error
}

// PageRegistry is the on-chain pointer surface the lifecycle needs.
type PageRegistry interface {
	CreatePage(ctx context.Context, signer chain.Signer, contract common.Address, contentRef string) (common.Hash, error)
	UpdateContentHash(ctx context.Context, signer chain.Signer, pageID common.Hash, contentRef string) (common.Hash, error)
	DestroyPage(ctx context.Context, signer chain.Signer, pageID common.Hash) (common.Hash, error)
	WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	PageIDFromReceipt(receipt *types.Receipt) (common.Hash, error)
	ContentHash(ctx context.Context, pageID common.Hash) (string, error)
}

// Asset is a file uploaded alongside the document, referenced by content id.
type Asset struct {
	Name string
	Data []byte
}

// Publisher drives the content-addressed publish, edit and destroy
// lifecycle. The ordering invariant it protects: the chain pointer is
// never written before its content is uploaded, and superseded content is
// never unpinned before the chain write that replaces it is confirmed.
type Publisher struct {
	store    ContentStore
	registry PageRegistry
	log      zerolog.Logger
	onStatus func(Status)
}

// New wires a publisher. onStatus may be nil.
func New(store ContentStore, registry PageRegistry, log zerolog.Logger, onStatus func(Status)) *Publisher {
	return &Publisher{
		store:    store,
		registry: registry,
		log:      log.With().Str("component", "publish").Logger(),
		onStatus: onStatus,
	}
}

func (p *Publisher) setStatus(s Status) {
	p.log.Debug().Str("status", string(s)).Msg("Lifecycle state")
	if p.onStatus != nil {
		p.onStatus(s)
	}
}

func (p *Publisher) fail(err error) error {
	p.setStatus(StatusError)
	return err
}

// uploadAssets pins any new icon or background, substituting each content
// reference into the document in place of the raw upload.
func (p *Publisher) uploadAssets(ctx context.Context, doc *page.Document, icon, background *Asset) error {
	if icon != nil {
		id, err := p.store.Put(ctx, icon.Name, icon.Data)
		if err != nil {
			return errors.Wrap(err, "uploading icon")
		}
		doc.Icon = page.ContentRef(id)
	}
	if background != nil {
		id, err := p.store.Put(ctx, background.Name, background.Data)
		if err != nil {
			return errors.Wrap(err, "uploading background image")
		}
		doc.BackgroundImage = page.ContentRef(id)
	}
	return nil
}

// Create publishes a brand new page: assets first, then the document,
// then the chain pointer. The page identifier comes out of the confirmed
// receipt's creation event.
func (p *Publisher) Create(ctx context.Context, signer chain.Signer, doc *page.Document, icon, background *Asset) (common.Hash, string, error) {
	doc.Colors.ApplyDefaults()

	p.setStatus(StatusUploadingContent)
	if err := p.uploadAssets(ctx, doc, icon, background); err != nil {
		return common.Hash{}, "", p.fail(err)
	}
	docID, err := p.store.PutJSON(ctx, doc)
	if err != nil {
		return common.Hash{}, "", p.fail(errors.Wrap(err, "uploading document"))
	}

	p.setStatus(StatusAwaitingSignature)
	txHash, err := p.registry.CreatePage(ctx, signer, common.HexToAddress(doc.ContractAddress), page.ContentRef(docID))
	if err != nil {
		return common.Hash{}, "", p.fail(err)
	}

	p.setStatus(StatusConfirmingOnChain)
	receipt, err := p.registry.WaitForReceipt(ctx, txHash)
	if err != nil {
		return common.Hash{}, "", p.fail(err)
	}
	pageID, err := p.registry.PageIDFromReceipt(receipt)
	if err != nil {
		return common.Hash{}, "", p.fail(err)
	}

	p.setStatus(StatusSuccess)
	p.log.Info().Str("pageId", pageID.Hex()).Str("contentId", docID).Msgf("%v Page published", emoji.Rocket)
	return pageID, docID, nil
}

// Edit uploads a new immutable document version, swaps the existing
// pointer, then garbage-collects the previous version: the old document
// id always, plus any old asset id the new document no longer references.
func (p *Publisher) Edit(ctx context.Context, signer chain.Signer, pageID common.Hash, doc *page.Document, icon, background *Asset) (string, error) {
	doc.Colors.ApplyDefaults()

	oldRef, err := p.registry.ContentHash(ctx, pageID)
	if err != nil {
		return "", p.fail(err)
	}
	oldID, ok := page.ContentID(oldRef)
	if !ok {
		return "", p.fail(errors.Newf("page %s has no content", pageID.Hex()))
	}
	var oldDoc page.Document
	if err := p.store.GetJSON(ctx, oldID, &oldDoc); err != nil {
		return "", p.fail(errors.Wrap(err, "fetching previous version"))
	}

	p.setStatus(StatusUploadingContent)
	if err := p.uploadAssets(ctx, doc, icon, background); err != nil {
		return "", p.fail(err)
	}
	newID, err := p.store.PutJSON(ctx, doc)
	if err != nil {
		return "", p.fail(errors.Wrap(err, "uploading document"))
	}

	p.setStatus(StatusAwaitingSignature)
	txHash, err := p.registry.UpdateContentHash(ctx, signer, pageID, page.ContentRef(newID))
	if err != nil {
		return "", p.fail(err)
	}

	p.setStatus(StatusConfirmingOnChain)
	if _, err := p.registry.WaitForReceipt(ctx, txHash); err != nil {
		return "", p.fail(err)
	}

	// The pointer now references the new version; the old one is
	// unreachable and safe to collect.
	p.setStatus(StatusUnpinningOld)
	if err := p.store.Unpin(ctx, oldID); err != nil {
		return "", p.fail(errors.Wrap(err, "unpinning previous document"))
	}
	kept := make(map[string]bool)
	for _, id := range doc.AssetContentIDs() {
		kept[id] = true
	}
	for _, id := range oldDoc.AssetContentIDs() {
		if kept[id] {
			continue
		}
		if err := p.store.Unpin(ctx, id); err != nil {
			return "", p.fail(errors.Wrapf(err, "unpinning superseded asset %s", id))
		}
	}

	p.setStatus(StatusSuccess)
	p.log.Info().Str("pageId", pageID.Hex()).Str("contentId", newID).Msg("Page updated")
	return newID, nil
}

// Destroy garbage-collects everything reachable from the page, then
// removes the on-chain pointer. There is no new version to protect.
func (p *Publisher) Destroy(ctx context.Context, signer chain.Signer, pageID common.Hash) error {
	ref, err := p.registry.ContentHash(ctx, pageID)
	if err != nil {
		return p.fail(err)
	}
	docID, ok := page.ContentID(ref)
	if !ok {
		return p.fail(errors.Newf("page %s has no content", pageID.Hex()))
	}
	var doc page.Document
	if err := p.store.GetJSON(ctx, docID, &doc); err != nil {
		return p.fail(errors.Wrap(err, "fetching document"))
	}

	p.setStatus(StatusUnpinningOld)
	if err := p.store.Unpin(ctx, docID); err != nil {
		return p.fail(errors.Wrap(err, "unpinning document"))
	}
	for _, id := range doc.AssetContentIDs() {
		if err := p.store.Unpin(ctx, id); err != nil {
			return p.fail(errors.Wrapf(err, "unpinning asset %s", id))
		}
	}

	p.setStatus(StatusAwaitingSignature)
	txHash, err := p.registry.DestroyPage(ctx, signer, pageID)
	if err != nil {
		return p.fail(err)
	}

	p.setStatus(StatusConfirmingOnChain)
	if _, err := p.registry.WaitForReceipt(ctx, txHash); err != nil {
		return p.fail(err)
	}

	p.setStatus(StatusSuccess)
	p.log.Info().Str("pageId", pageID.Hex()).Msg("Page destroyed")
	return nil
}
