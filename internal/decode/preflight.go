package decode

import (
	"fmt"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// Preflight reads and validates path with pdfcpu and returns its page count.
// Files pdfcpu cannot read in relaxed mode are reported as ErrDecode, which
// keeps corrupt input away from the glyph decoder.
func Preflight(path string) (int, error) {
	disableConfigDir.Do(api.DisableConfigDir)

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return 0, fmt.Errorf("%w: pdfcpu read %s: %v", ErrDecode, path, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return 0, fmt.Errorf("%w: pdfcpu validate %s: %v", ErrDecode, path, err)
	}
	return ctx.PageCount, nil
}
