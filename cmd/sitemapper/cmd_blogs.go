package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/romangod6/sitemapper/internal/blog"
	"github.com/spf13/cobra"
)

var blogsCmd = &cobra.Command{
	Use:   "blogs",
	Short: "List the published posts the blog source returns",
	Args:  cobra.NoArgs,
	RunE:  runBlogs,
}

func runBlogs(cmd *cobra.Command, args []string) error {
	source, closer, err := blog.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	w := cmd.OutOrStdout()
	if source == nil {
		fmt.Fprintln(w, "Blog source disabled")
		return nil
	}

	blogs, err := source.PublishedBlogs(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("fetching published blogs: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTITLE\tLASTMOD")
	for _, b := range blogs {
		lastmod := "-"
		if b.UpdatedAt != nil || b.CreatedAt != nil {
			lastmod = b.LastModified(time.Time{}).UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Slug, b.Title, lastmod)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d published posts\n", len(blogs))
	return nil
}
