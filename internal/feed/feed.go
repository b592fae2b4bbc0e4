// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// Package feed builds the RSS 2.0 document for the public announcements feed.
package feed

import (
	"encoding/xml"
	"fmt"
	"time"
)

// AtomNamespace is the Atom XML namespace used for the self link.
const AtomNamespace = "http://www.w3.org/2005/Atom"

// Item is a single announcement entry in the feed.
type Item struct {
	ID          int64
	Title       string
	Description string
	Category    string
	PubDate     time.Time
}

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Description   string    `xml:"description"`
	Link          string    `xml:"link"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	AtomLink      atomLink  `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       cdata    `xml:"title"`
	Description cdata    `xml:"description"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category,omitempty"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink string `xml:"isPermaLink,attr"`
}

// Builder assembles an RSS document for a channel.
type Builder struct {
	siteURL     string
	title       string
	description string
	language    string
	now         func() time.Time
	items       []rssItem
}

// NewBuilder creates a feed builder for the given site.
func NewBuilder(siteURL, title, description, language string) *Builder {
	return &Builder{
		siteURL:     siteURL,
		title:       title,
		description: description,
		language:    language,
		now:         time.Now,
		items:       make([]rssItem, 0),
	}
}

// AddItem appends an announcement to the feed.
func (b *Builder) AddItem(item Item) {
	entry := rssItem{
		Title:       cdata{Value: item.Title},
		Description: cdata{Value: item.Description},
		Link:        fmt.Sprintf("%s/annunci#%d", b.siteURL, item.ID),
		GUID: rssGUID{
			Value:       fmt.Sprintf("%d", item.ID),
			IsPermaLink: "false",
		},
		PubDate: item.PubDate.UTC().Format(time.RFC1123),
	}
	if item.Category != "" {
		entry.Categories = append(entry.Categories, item.Category)
	}
	b.items = append(b.items, entry)
}

// AddItems appends multiple announcements to the feed.
func (b *Builder) AddItems(items []Item) {
	for _, item := range items {
		b.AddItem(item)
	}
}

// Build generates the RSS XML.
func (b *Builder) Build() ([]byte, error) {
	doc := rssDocument{
		Version: "2.0",
		AtomNS:  AtomNamespace,
		Channel: rssChannel{
			Title:         b.title,
			Description:   b.description,
			Link:          b.siteURL,
			Language:      b.language,
			LastBuildDate: b.now().UTC().Format(time.RFC1123),
			AtomLink: atomLink{
				Href: b.siteURL + "/rss.xml",
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: b.items,
		},
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
