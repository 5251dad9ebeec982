package consolidator

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Payload 已读入内存的文件
type Payload struct {
	Filename string
	Data     []byte
}

// OpenAll 并发解码多个工作簿，返回顺序与输入一致
//
// On the first failure every workbook already opened is closed and the error
// of that file is returned. limit <= 0 uses GOMAXPROCS.
func OpenAll(ctx context.Context, payloads []Payload, limit int) ([]*Source, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	sources := make([]*Source, len(payloads))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, p := range payloads {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := OpenBytes(p.Filename, p.Data)
			if err != nil {
				return err
			}
			sources[i] = src
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		CloseAll(sources)
		return nil, err
	}
	return sources, nil
}

// CloseAll 关闭全部工作簿，忽略 nil
func CloseAll(sources []*Source) {
	for _, s := range sources {
		if s != nil {
			_ = s.Close()
		}
	}
}
