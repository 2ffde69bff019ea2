package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsawler/fractionator"
	"github.com/tsawler/fractionator/corpus"
	"github.com/tsawler/fractionator/internal/store"
)

type textFlags struct {
	page         int
	noSentences  bool
	noParagraphs bool
	keepHTML     bool
	asJSON       bool
	dbPath       string
}

func newTextCmd(a *app) *cobra.Command {
	f := &textFlags{}

	cmd := &cobra.Command{
		Use:   "text <file>",
		Short: "Print the corpus of one page or of every page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(cmd, a, f, args[0])
		},
	}

	cmd.Flags().IntVarP(&f.page, "page", "p", 0, "page number (default all pages)")
	cmd.Flags().BoolVar(&f.noSentences, "no-sentences", false, "do not split paragraphs into sentences")
	cmd.Flags().BoolVar(&f.noParagraphs, "no-paragraphs", false, "do not insert paragraph delimiters")
	cmd.Flags().BoolVar(&f.keepHTML, "keep-html", false, "keep HTML tags in the text")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print one JSON object per page")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "SQLite database that receives the corpora")
	return cmd
}

// pageCorpus is the JSON shape of one page.
type pageCorpus struct {
	Page   int                `json:"page"`
	Corpus *corpus.TextCorpus `json:"corpus"`
}

func runText(cmd *cobra.Command, a *app, f *textFlags, path string) error {
	opts := a.options()
	if f.keepHTML {
		opts.RemoveHTMLTags = false
	}
	splitSentences := a.cfg.Corpus.SplitSentences && !f.noSentences
	splitParagraphs := a.cfg.Corpus.SplitParagraphs && !f.noParagraphs

	doc, err := fractionator.Open(path, opts)
	if err != nil {
		return err
	}
	defer doc.Close()

	pages := []int{f.page}
	if f.page == 0 {
		pages = make([]int, doc.PageCount())
		for i := range pages {
			pages[i] = i + 1
		}
	}

	dbPath := f.dbPath
	if dbPath == "" {
		dbPath = a.cfg.Store.Path
	}
	var db *store.Store
	runID := store.NewRunID()
	if dbPath != "" {
		if db, err = store.Open(dbPath); err != nil {
			return err
		}
		defer db.Close()
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	for i, page := range pages {
		c, err := doc.GetText(page, splitSentences, splitParagraphs)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}

		if db != nil {
			if err := db.SaveCorpus(cmd.Context(), runID, path, page, c); err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
		}

		if f.asJSON {
			if err := enc.Encode(pageCorpus{Page: page, Corpus: c}); err != nil {
				return err
			}
			continue
		}
		if err := writePage(out, c, i > 0); err != nil {
			return err
		}
	}

	if db != nil {
		a.logger.Info().Str("run_id", runID).Int("pages", len(pages)).Msg("corpora stored")
	}
	return nil
}

// writePage prints one item per line. Pages after the first are preceded by
// a form feed.
func writePage(w io.Writer, c *corpus.TextCorpus, separate bool) error {
	if separate {
		if _, err := io.WriteString(w, "\f"); err != nil {
			return err
		}
	}
	text := c.String()
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
