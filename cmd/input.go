package cmd

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/spf13/cobra"

	"github.com/conneroisu/accname/internal/accessibility"
	accerrors "github.com/conneroisu/accname/internal/errors"
	"github.com/conneroisu/accname/pkg/accname"
	"github.com/conneroisu/accname/pkg/dom"
	"github.com/conneroisu/accname/pkg/l10n"
	"github.com/conneroisu/accname/pkg/style"
)

// stdinName is the input argument that selects standard input.
const stdinName = "-"

// inputArg returns the single optional input argument.
func inputArg(args []string) string {
	if len(args) == 0 {
		return stdinName
	}
	return args[0]
}

// openInput opens path, or the command's standard input for "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == stdinName || path == "" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, accerrors.ErrFileNotFound(path, err)
	}
	if err != nil {
		return nil, accerrors.WrapIO(err, accerrors.ErrCodeReadFailed, "failed to open file").
			WithLocation(path, 0)
	}
	return f, nil
}

// loadDocument parses the HTML document named by path.
func loadDocument(cmd *cobra.Command, path string) (*dom.Document, error) {
	r, err := openInput(cmd, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc, err := dom.Parse(r)
	if err != nil {
		return nil, accerrors.NewParseError(accerrors.ErrCodeInvalidHTML, "failed to parse HTML", err).
			WithLocation(path, 0)
	}
	return doc, nil
}

// selectElements returns the light-tree elements of doc matching selector,
// in document order.
func selectElements(doc *dom.Document, selector string) ([]*dom.Node, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, accerrors.ErrInvalidSelector(selector, err)
	}

	var nodes []*dom.Node
	goquery.NewDocumentFromNode(doc.Root().Raw()).FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
		if n := doc.Lookup(s.Get(0)); n != nil {
			nodes = append(nodes, n)
		}
	})
	if len(nodes) == 0 {
		return nil, accerrors.ErrNoMatch(selector)
	}
	return nodes, nil
}

// computeOptions builds the computation options for doc from the loaded
// configuration.
func computeOptions(doc *dom.Document) (accname.Options, error) {
	fallback, err := fallbackStrings()
	if err != nil {
		return accname.Options{}, err
	}
	return accname.Options{
		Hidden:           cfg.Compute.Hidden,
		GetComputedStyle: style.NewResolver(doc).Func(),
		Strings:          fallback,
	}, nil
}

func fallbackStrings() (l10n.Strings, error) {
	if cfg.Compute.Language == "" {
		return l10n.English, nil
	}
	catalog, err := l10n.Parse(cfg.Compute.Language)
	if err != nil {
		return nil, accerrors.NewValidationError(accerrors.ErrCodeValidationFailed, err.Error())
	}
	return catalog, nil
}

// selectorOf returns the CSS path used to label n in output.
func selectorOf(n *dom.Node, opts accname.Options) string {
	return accessibility.NewDOMElement(n, opts).Selector()
}
