// Package navigation resolves the site's menu trees. Entries either carry a
// fixed URL or name a go-urlkit route that gets built with its parameters at
// build time, so templates never hand-assemble hrefs.
package navigation

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// Config wires menu definitions to a urlkit route table.
type Config struct {
	// RouteConfig declares the urlkit groups and route templates. Nil disables
	// route-backed entries; fixed URLs keep working.
	RouteConfig *urlkit.Config
	// DefaultGroup is the dotted group path used when an entry names none.
	DefaultGroup string
	// Menus lists the navigation trees exposed to templates, keyed by name.
	Menus []MenuConfig
}

// MenuConfig declares one named navigation tree.
type MenuConfig struct {
	Name  string
	Items []ItemConfig
}

// ItemConfig declares a single menu entry. URL wins over Route when both are
// set.
type ItemConfig struct {
	Label    string
	URL      string
	Route    string
	Group    string
	Params   map[string]string
	Query    map[string][]string
	Children []ItemConfig
}

// Node is a resolved navigation entry handed to templates.
type Node struct {
	Label    string
	URL      string
	Children []Node
}

// Resolver builds menu URLs using a go-urlkit RouteManager.
type Resolver struct {
	manager      *urlkit.RouteManager
	defaultGroup string
	menus        []MenuConfig

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// NewResolver constructs a resolver from the navigation configuration.
func NewResolver(cfg Config) *Resolver {
	var manager *urlkit.RouteManager
	if cfg.RouteConfig != nil {
		manager = urlkit.NewRouteManager(cfg.RouteConfig)
	}

	return &Resolver{
		manager:      manager,
		defaultGroup: strings.TrimSpace(cfg.DefaultGroup),
		menus:        cfg.Menus,
		groupCache:   make(map[string]*urlkit.Group),
	}
}

// Menus resolves every configured tree, keyed by menu name. Menu names come
// back sorted inside the map's key set for deterministic template output.
func (r *Resolver) Menus() (map[string][]Node, error) {
	resolved := make(map[string][]Node, len(r.menus))
	for _, menu := range r.menus {
		name := strings.TrimSpace(menu.Name)
		if name == "" {
			continue
		}
		nodes, err := r.resolveItems(menu.Items)
		if err != nil {
			return nil, fmt.Errorf("navigation: menu %s: %w", name, err)
		}
		resolved[name] = nodes
	}
	return resolved, nil
}

// MenuNames lists the configured menu names in sorted order.
func (r *Resolver) MenuNames() []string {
	names := make([]string, 0, len(r.menus))
	for _, menu := range r.menus {
		if name := strings.TrimSpace(menu.Name); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *Resolver) resolveItems(items []ItemConfig) ([]Node, error) {
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		node, err := r.resolveItem(item)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (r *Resolver) resolveItem(item ItemConfig) (Node, error) {
	node := Node{Label: strings.TrimSpace(item.Label)}

	url, err := r.resolveURL(item)
	if err != nil {
		return Node{}, err
	}
	node.URL = url

	if len(item.Children) > 0 {
		children, err := r.resolveItems(item.Children)
		if err != nil {
			return Node{}, err
		}
		node.Children = children
	}

	return node, nil
}

func (r *Resolver) resolveURL(item ItemConfig) (string, error) {
	if url := strings.TrimSpace(item.URL); url != "" {
		return url, nil
	}

	route := strings.TrimSpace(item.Route)
	if route == "" {
		return "", nil
	}
	if r.manager == nil {
		return "", fmt.Errorf("route %q declared but no route config loaded", route)
	}

	groupPath := strings.TrimSpace(item.Group)
	if groupPath == "" {
		groupPath = r.defaultGroup
	}
	if groupPath == "" {
		return "", fmt.Errorf("route %q declared without a group", route)
	}

	group, err := r.groupForPath(groupPath)
	if err != nil {
		return "", err
	}

	builder, err := r.safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	if builder == nil {
		return "", fmt.Errorf("route %q has no builder in group %q", route, groupPath)
	}

	for _, key := range sortedKeys(item.Params) {
		builder.WithParam(key, item.Params[key])
	}
	for _, key := range sortedQueryKeys(item.Query) {
		for _, value := range item.Query[key] {
			builder.WithQuery(key, value)
		}
	}

	return builder.Build()
}

// groupForPath walks a dotted group path ("frontend.docs") through nested
// urlkit groups, caching the result.
func (r *Resolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	root, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	current := root
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

// urlkit panics on unknown groups and routes; these wrappers convert the
// panics into errors the build report can carry.
func (r *Resolver) safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("route %q not registered: %v", route, rec)
		}
	}()
	return group.Builder(route), nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("parent group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("child group %q not found", name)
		}
	}()
	return parent.Group(name), nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedQueryKeys(values map[string][]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
