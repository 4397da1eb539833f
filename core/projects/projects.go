// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package projects provides a client-side cache of the media collections.

The cache keeps one list per resource, newest first, exactly as the
server returns it. Mutations are pessimistic: the cache talks to the
backend first and only applies the change locally when the request
succeeded. All errors propagate unchanged to the caller.
*/
package projects

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/relabs-tech/collectify/core"
	"github.com/relabs-tech/collectify/core/client"
)

// Project is a single tracked item. The server is schemaless, these are
// the fields the clients actually use.
type Project struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Genre     string    `json:"genre"`
	Status    string    `json:"status"`
	Rating    float64   `json:"rating,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	Image     string    `json:"image,omitempty"`
	Year      int       `json:"year,omitempty"`
	Author    string    `json:"author,omitempty"`
	Director  string    `json:"director,omitempty"`
	Platform  string    `json:"platform,omitempty"`
	Developer string    `json:"developer,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// UploadedImage is the result of an image upload
type UploadedImage struct {
	ImageData    string `json:"imageData"`
	MimeType     string `json:"mimeType"`
	OriginalName string `json:"originalName"`
	Size         int    `json:"size"`
}

// Cache is a per-resource snapshot of the server state. It is safe for
// concurrent use.
type Cache struct {
	client client.Client

	mu    sync.RWMutex
	lists map[core.Resource][]Project
}

// NewCache creates an empty cache on top of the given client
func NewCache(c client.Client) *Cache {
	return &Cache{
		client: c,
		lists:  map[core.Resource][]Project{},
	}
}

func collectionPath(resource core.Resource) string {
	return "/api/" + resource.Collection()
}

// Load fetches all collections from the server and replaces the local state
func (c *Cache) Load(ctx context.Context) error {
	lists := map[core.Resource][]Project{}
	for _, resource := range core.Resources() {
		var list []Project
		_, err := c.client.WithContext(ctx).RawGet(collectionPath(resource), &list)
		if err != nil {
			return err
		}
		lists[resource] = list
	}

	c.mu.Lock()
	c.lists = lists
	c.mu.Unlock()
	return nil
}

// Add creates the project on the server and prepends the stored document
// to the local list. Returns the created project including its id.
func (c *Cache) Add(ctx context.Context, project Project, resource core.Resource) (Project, error) {
	created := Project{}
	_, err := c.client.WithContext(ctx).RawPost(collectionPath(resource), &project, &created)
	if err != nil {
		return Project{}, err
	}

	c.mu.Lock()
	c.lists[resource] = append([]Project{created}, c.lists[resource]...)
	c.mu.Unlock()
	return created, nil
}

// Update writes the project to the server and replaces the local entry
// with the same id, keeping its position in the list.
func (c *Cache) Update(ctx context.Context, id string, project Project, resource core.Resource) (Project, error) {
	updated := Project{}
	_, err := c.client.WithContext(ctx).RawPut(collectionPath(resource)+"/"+id, &project, &updated)
	if err != nil {
		return Project{}, err
	}

	c.mu.Lock()
	list := c.lists[resource]
	for i := range list {
		if list[i].ID == id {
			list[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return updated, nil
}

// Delete removes the project on the server and from the local list
func (c *Cache) Delete(ctx context.Context, id string, resource core.Resource) error {
	_, err := c.client.WithContext(ctx).RawDelete(collectionPath(resource)+"/"+id, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	list := c.lists[resource]
	for i := range list {
		if list[i].ID == id {
			c.lists[resource] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// Projects returns a snapshot copy of the local list for the resource
func (c *Cache) Projects(resource core.Resource) []Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Project{}, c.lists[resource]...)
}

// IsDuplicateTitle reports whether the local list already contains the
// title, compared case-insensitively after trimming whitespace. It only
// consults the cache, never the server.
func (c *Cache) IsDuplicateTitle(title string, resource core.Resource) bool {
	needle := strings.ToLower(strings.TrimSpace(title))

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.lists[resource] {
		if strings.ToLower(strings.TrimSpace(p.Title)) == needle {
			return true
		}
	}
	return false
}

// UploadImage sends the image to the upload endpoint and returns the
// base64 data url together with the upload metadata
func (c *Cache) UploadImage(ctx context.Context, filename, contentType string, data []byte) (UploadedImage, error) {
	result := UploadedImage{}
	_, err := c.client.WithContext(ctx).PostMultipart("/api/uploads", "image", filename, contentType, data, &result)
	if err != nil {
		return UploadedImage{}, err
	}
	return result, nil
}

// Statistics is a local aggregate over a list of projects
type Statistics struct {
	Count         int
	Completed     int
	AverageRating float64
}

// AverageRating returns the unrounded mean of all positive ratings.
// Ratings of zero or below mean unrated and are excluded. Returns 0
// when nothing is rated.
func AverageRating(projects []Project) float64 {
	var sum float64
	var n int
	for _, p := range projects {
		if p.Rating > 0 {
			sum += p.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// CompletedCount returns the number of projects with status "completed"
func CompletedCount(projects []Project) int {
	var n int
	for _, p := range projects {
		if p.Status == "completed" {
			n++
		}
	}
	return n
}

// Stats aggregates a list of projects locally
func Stats(projects []Project) Statistics {
	return Statistics{
		Count:         len(projects),
		Completed:     CompletedCount(projects),
		AverageRating: AverageRating(projects),
	}
}
