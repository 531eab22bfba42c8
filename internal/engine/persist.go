package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"path"
	"strings"
	"time"
)

func (s *service) persistProducts(ctx context.Context, writer artifactWriter, compiled []CompiledProduct) error {
	if len(compiled) == 0 {
		return nil
	}
	dirCache := map[string]struct{}{}
	for _, p := range compiled {
		if err := ensureDir(ctx, writer, dirCache, path.Dir(p.Route)); err != nil {
			return err
		}
		req := writeFileRequest{
			Path:        p.Route,
			Content:     bytes.NewReader(p.Body),
			Size:        int64(len(p.Body)),
			Category:    categoryForRoute(p.Route),
			ContentType: detectContentType(p.Route),
			Checksum:    p.Checksum,
			Metadata: map[string]string{
				"identifier": p.Identifier.String(),
				"set":        p.Set,
				"rule":       p.Rule,
			},
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) writeFeeds(ctx context.Context, writer artifactWriter, docs []feedDocument) error {
	if len(docs) == 0 {
		return nil
	}
	dirCache := map[string]struct{}{}
	for _, doc := range docs {
		if err := ensureDir(ctx, writer, dirCache, path.Dir(doc.Path)); err != nil {
			return err
		}
		req := writeFileRequest{
			Path:        doc.Path,
			Content:     strings.NewReader(doc.Content),
			Size:        int64(len(doc.Content)),
			Category:    categoryFeed,
			ContentType: doc.ContentType,
			Checksum:    computeHashFromString(doc.Content),
			Metadata:    map[string]string{},
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) writeSitemap(
	ctx context.Context,
	writer artifactWriter,
	compiled []CompiledProduct,
	generatedAt time.Time,
) error {
	content := buildSitemap(s.cfg.BaseURL, compiled, generatedAt)
	checksum := computeHashFromString(content)
	req := writeFileRequest{
		Path:        "sitemap.xml",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    checksum,
		Metadata: map[string]string{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
	}
	return writer.WriteFile(ctx, req)
}

func (s *service) writeRobots(ctx context.Context, writer artifactWriter, generatedAt time.Time) error {
	content := buildRobots(s.cfg.BaseURL, s.cfg.GenerateSitemap)
	checksum := computeHashFromString(content)
	req := writeFileRequest{
		Path:        "robots.txt",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
		Checksum:    checksum,
		Metadata: map[string]string{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
	}
	return writer.WriteFile(ctx, req)
}

func (s *service) copyThemeAssets(ctx context.Context, writer artifactWriter) (int, error) {
	if s.deps.Assets == nil {
		return 0, nil
	}
	built := 0
	dirCache := map[string]struct{}{}
	seen := map[string]struct{}{}
	for _, name := range s.deps.Assets.List() {
		dest := themeAssetRoute(name)
		if dest == "" {
			continue
		}
		if _, ok := seen[dest]; ok {
			continue
		}
		seen[dest] = struct{}{}

		reader, err := s.deps.Assets.Open(name)
		if err != nil {
			return built, err
		}
		data, err := io.ReadAll(reader)
		_ = reader.Close()
		if err != nil {
			return built, err
		}

		if err := ensureDir(ctx, writer, dirCache, path.Dir(dest)); err != nil {
			return built, err
		}
		req := writeFileRequest{
			Path:        dest,
			Content:     bytes.NewReader(data),
			Size:        int64(len(data)),
			Category:    categoryAsset,
			ContentType: detectContentType(dest),
			Checksum:    computeHash(data),
			Metadata: map[string]string{
				"asset": strings.TrimLeft(strings.TrimSpace(name), "/"),
			},
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return built, err
		}
		built++
	}
	return built, nil
}

// themeAssetRoute maps a theme asset name onto the published assets tree.
func themeAssetRoute(name string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(name), "/")
	if trimmed == "" {
		return ""
	}
	return path.Join("assets", trimmed)
}

func categoryForRoute(route string) writeCategory {
	if strings.HasSuffix(strings.ToLower(route), ".html") {
		return categoryPage
	}
	return categoryAsset
}

func detectContentType(route string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(route), "."))
	switch ext {
	case "html", "htm":
		return "text/html; charset=utf-8"
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	case "json":
		return "application/json"
	case "xml":
		return "application/xml"
	case "txt":
		return "text/plain; charset=utf-8"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "ico":
		return "image/x-icon"
	case "woff":
		return "font/woff"
	case "woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}
