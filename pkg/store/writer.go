package store

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"comicgen/pkg/inference"
	"comicgen/pkg/schema"
)

type SaveInput struct {
	Prompt  string
	Style   schema.Style
	Scripts []schema.PanelScript
	// Prompts are the image prompts, index-aligned with Scripts.
	Prompts []string
	Images  []*inference.Image
}

// UploadError lists the panels whose image could not be stored.
type UploadError struct {
	ComicID int64
	Panels  []int
	Err     error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading images for comic %d failed for panels %v: %v", e.ComicID, e.Panels, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Writer stores a finished comic: comic row, then images, then panel rows.
type Writer struct {
	repo    Repository
	objects ObjectStore
	format  ImageFormat
	now     func() time.Time
}

func NewWriter(repo Repository, objects ObjectStore, format ImageFormat) *Writer {
	return &Writer{repo: repo, objects: objects, format: format, now: time.Now}
}

func (w *Writer) Save(ctx context.Context, in SaveInput) (*Comic, error) {
	if len(in.Images) != len(in.Scripts) {
		return nil, fmt.Errorf("got %d images for %d scripts", len(in.Images), len(in.Scripts))
	}
	logger := log.FromContext(ctx)

	comic := &Comic{
		UserPrompt: in.Prompt,
		Style:      string(in.Style),
		PanelCount: len(in.Scripts),
	}
	if err := w.repo.CreateComic(ctx, comic); err != nil {
		return nil, err
	}

	urls, err := w.upload(ctx, comic.ID, in.Images)
	if err != nil {
		return nil, err
	}

	comic.Panels = lo.Map(in.Scripts, func(s schema.PanelScript, i int) *Panel {
		var prompt string
		if i < len(in.Prompts) {
			prompt = in.Prompts[i]
		}
		return &Panel{
			ComicID:     comic.ID,
			PanelNumber: s.PanelNumber,
			ScriptText:  s.Description,
			Dialogue:    s.Dialogue,
			Mood:        s.Mood,
			ImagePrompt: prompt,
			ImageURL:    urls[i],
		}
	})
	if err := w.repo.CreatePanels(ctx, comic.Panels); err != nil {
		return nil, err
	}

	logger.Info("comic saved", "comic_id", comic.ID, "panels", len(comic.Panels))
	return comic, nil
}

// upload stores every image in parallel and only fails after all finished.
func (w *Writer) upload(ctx context.Context, comicID int64, images []*inference.Image) ([]string, error) {
	stamp := w.now().UnixMilli()
	urls := make([]string, len(images))
	errs := make([]error, len(images))

	var eg errgroup.Group
	for i, img := range images {
		eg.Go(func() error {
			data, err := encodeImage(img, w.format)
			if err != nil {
				errs[i] = err
				return nil
			}
			key := fmt.Sprintf("panels/comic-%d-panel-%d-%d.%s", comicID, i+1, stamp, w.format)
			urls[i], errs[i] = w.objects.Upload(ctx, key, data, w.format.ContentType())
			return nil
		})
	}
	_ = eg.Wait()

	var merr *multierror.Error
	var failed []int
	for i, err := range errs {
		if err != nil {
			failed = append(failed, i+1)
			merr = multierror.Append(merr, fmt.Errorf("panel %d: %w", i+1, err))
		}
	}
	if merr != nil {
		return nil, &UploadError{ComicID: comicID, Panels: failed, Err: merr.ErrorOrNil()}
	}
	return urls, nil
}
