package merge

import (
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var configOnce sync.Once

func pdfConfig() *model.Configuration {
	// pdfcpu otherwise writes a config dir under the user's home.
	configOnce.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// countPages parses and validates path and returns its page count.
func countPages(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, pdfConfig())
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

func mergeFiles(files []string, outPath string) error {
	return api.MergeCreateFile(files, outPath, false, pdfConfig())
}
