// Package pipeline drives a generation run: reset the skill root, copy the
// scaffold, then write the index, descriptors and manifest.
package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jingkaihe/skillport/pkg/config"
	"github.com/jingkaihe/skillport/pkg/index"
	"github.com/jingkaihe/skillport/pkg/logger"
	"github.com/jingkaihe/skillport/pkg/manifest"
	"github.com/jingkaihe/skillport/pkg/provenance"
	"github.com/jingkaihe/skillport/pkg/rewrite"
	"github.com/jingkaihe/skillport/pkg/scaffold"
	"github.com/jingkaihe/skillport/pkg/skills"
	"github.com/jingkaihe/skillport/pkg/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// IndexPath is where the index lives relative to the skill root.
var IndexPath = filepath.Join("references", index.FileName)

// Options is everything a run needs.
type Options struct {
	Root           string
	SkillRoot      string
	SkillName      string
	IndexHeading   string
	DocExtension   string
	TextExtensions []string
	Categories     []scaffold.Category
	// ManifestOrder orders the category counts in upstream.json. Categories
	// it does not name follow in index order.
	ManifestOrder []string
	Runtime       *scaffold.RuntimeTree
	Rules         rewrite.Rules
	Provider      provenance.Provider
	PackageFile   string
	Descriptor    manifest.Descriptor
}

// NewOptions derives run options from configuration.
func NewOptions(cfg *config.Config) (Options, error) {
	provider, err := provenance.New(cfg.Provenance.Backend, cfg.Root)
	if err != nil {
		return Options{}, err
	}

	descriptor := manifest.DefaultDescriptor(cfg.SkillName)
	if cfg.DisplayName != "" {
		descriptor.DisplayName = cfg.DisplayName
	}

	return Options{
		Root:           cfg.Root,
		SkillRoot:      cfg.SkillRoot(),
		SkillName:      cfg.SkillName,
		IndexHeading:   cfg.IndexHeading(),
		DocExtension:   cfg.DocExtension,
		TextExtensions: cfg.TextExtensions,
		Categories:     cfg.CategoryList(),
		ManifestOrder:  scaffold.DefaultManifestOrder(),
		Runtime:        cfg.Runtime(),
		Rules:          cfg.Rules(),
		Provider:       provider,
		PackageFile:    cfg.PackageFilePath(),
		Descriptor:     descriptor,
	}, nil
}

func (o Options) validate() error {
	if o.SkillRoot == "" {
		return errors.New("skill root is required")
	}
	if o.SkillName == "" {
		return errors.New("skill name is required")
	}
	if o.Provider == nil {
		return errors.New("provenance provider is required")
	}
	return nil
}

// Result describes a completed run.
type Result struct {
	SkillRoot string
	Copied    map[string]int
	Manifest  *manifest.Manifest
	Skill     *skills.Skill
}

// Run generates the skill under an exclusive lock. A lock held by another
// run fails immediately with ErrLocked.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	lock, err := acquireLock(opts.SkillRoot, false)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.release(); err != nil {
			logger.G(ctx).WithError(err).Warn("failed to release lock")
		}
	}()

	return generate(ctx, opts)
}

func generate(ctx context.Context, opts Options) (*Result, error) {
	log := logger.G(ctx).WithField("skill", opts.SkillName)
	result := &Result{SkillRoot: opts.SkillRoot}

	err := telemetry.WithSpan(ctx, "skillport.reset", func(context.Context) error {
		return reset(opts.SkillRoot)
	}, attribute.String("skill.root", opts.SkillRoot))
	if err != nil {
		return nil, err
	}
	log.WithField("dest", opts.SkillRoot).Debug("reset skill root")

	err = telemetry.WithSpan(ctx, "skillport.copy", func(ctx context.Context) error {
		copier := scaffold.NewCopier(opts.Root, opts.SkillRoot, rewrite.New(opts.Rules),
			scaffold.WithTextExtensions(opts.TextExtensions...))
		copied, err := copier.Copy(ctx, opts.Categories, opts.Runtime)
		if err != nil {
			return err
		}
		result.Copied = copied.Copied
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = telemetry.WithSpan(ctx, "skillport.metadata", func(ctx context.Context) error {
		m, err := writeMetadata(ctx, opts)
		if err != nil {
			return err
		}
		result.Manifest = m
		telemetry.SetAttributes(ctx,
			attribute.String("source.repo", m.SourceRepo),
			attribute.String("source.ref", m.SourceRef))
		return nil
	})
	if err != nil {
		return nil, err
	}

	skill, err := skills.Verify(opts.SkillRoot, opts.SkillName)
	if err != nil {
		return nil, errors.Wrap(err, "generated skill failed verification")
	}
	result.Skill = skill

	log.WithField("dest", opts.SkillRoot).Debug("generated skill")
	return result, nil
}

func reset(skillRoot string) error {
	if err := os.RemoveAll(skillRoot); err != nil {
		return errors.Wrapf(err, "failed to remove %s", skillRoot)
	}
	if err := os.MkdirAll(skillRoot, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", skillRoot)
	}
	return nil
}

func writeMetadata(ctx context.Context, opts Options) (*manifest.Manifest, error) {
	if err := os.MkdirAll(filepath.Join(opts.SkillRoot, "agents"), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create agents directory")
	}

	indexPath := filepath.Join(opts.SkillRoot, IndexPath)
	if err := index.Write(ctx, indexPath, opts.IndexHeading, opts.SkillRoot, opts.Categories, opts.DocExtension); err != nil {
		return nil, err
	}

	if err := manifest.WriteDescriptors(opts.SkillRoot, opts.Descriptor); err != nil {
		return nil, err
	}

	info := provenance.Resolve(ctx, opts.Provider, opts.PackageFile)
	counts, err := manifest.CountFiles(opts.SkillRoot, scaffold.OrderBy(opts.Categories, opts.ManifestOrder), opts.DocExtension)
	if err != nil {
		return nil, err
	}

	m := manifest.New(opts.SkillName, info, counts)
	if err := manifest.Write(ctx, opts.SkillRoot, m); err != nil {
		return nil, err
	}
	return m, nil
}
