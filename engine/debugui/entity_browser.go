package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sprout/engine"
)

type EntityInfo struct {
	ID           engine.EntityId
	Type         string
	Capabilities string
	Bounds       engine.Bounds
}

// CollectEntities lists every live entity of collection in activation order.
func CollectEntities(collection *engine.EntityCollection) []EntityInfo {
	infos := make([]EntityInfo, 0, collection.Statistics().Entities)
	for e := range collection.Entities() {
		id, ok := collection.IdOf(e)
		if !ok {
			continue
		}
		caps, _ := collection.CapabilitiesOf(e)
		infos = append(infos, EntityInfo{
			ID:           id,
			Type:         globalReflectionCache.Describe(e).Name,
			Capabilities: globalReflectionCache.Label(caps),
			Bounds:       e.TransformedBounds(),
		})
	}
	return infos
}

type EntityBrowser struct {
	entities           []EntityInfo
	lastFrame          int64
	sortColumn         int
	sortAscending      bool
	selectedEntityId   engine.EntityId
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		lastFrame:          -1,
		sortAscending:      true,
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(collection *engine.EntityCollection) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.Refresh(collection)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	filteredEntities := eb.Filtered()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Capabilities")
		imgui.TableSetupColumn("Location")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
			filteredEntities = eb.Filtered()
		}

		startIdx := min(eb.currentPage*eb.maxEntitiesPerPage, len(filteredEntities))
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Type)

			imgui.TableNextColumn()
			imgui.Text(entity.Capabilities)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.0f, %.0f", entity.Bounds.MinX, entity.Bounds.MinY))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// Refresh rebuilds the entity list once per collection frame.
func (eb *EntityBrowser) Refresh(collection *engine.EntityCollection) {
	frame := collection.FrameStats().FrameCount
	if eb.entities != nil && frame == eb.lastFrame {
		return
	}
	eb.lastFrame = frame
	eb.entities = CollectEntities(collection)
	eb.sortEntities()
}

// SortBy orders the list by column: id, type, capabilities or location.
func (eb *EntityBrowser) SortBy(column int, ascending bool) {
	eb.sortColumn = column
	eb.sortAscending = ascending
	eb.sortEntities()
}

func (eb *EntityBrowser) sortEntities() {
	sort.SliceStable(eb.entities, func(i, j int) bool {
		a, b := eb.entities[i], eb.entities[j]
		var less bool

		switch eb.sortColumn {
		case 1:
			less = a.Type < b.Type
		case 2:
			less = a.Capabilities < b.Capabilities
		case 3:
			less = a.Bounds.MinX < b.Bounds.MinX ||
				(a.Bounds.MinX == b.Bounds.MinX && a.Bounds.MinY < b.Bounds.MinY)
		default:
			less = a.ID < b.ID
		}

		if !eb.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowser) SetFilter(text string) {
	eb.filterText = text
	eb.currentPage = 0
}

// Filtered returns the entities whose id, type or capabilities contain the
// filter text, ignoring case.
func (eb *EntityBrowser) Filtered() []EntityInfo {
	if eb.filterText == "" {
		return eb.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.entities {
		idStr := fmt.Sprintf("%d", entity.ID)
		if !strings.Contains(idStr, filterLower) &&
			!strings.Contains(strings.ToLower(entity.Type), filterLower) &&
			!strings.Contains(entity.Capabilities, filterLower) {
			continue
		}
		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowser) Select(id engine.EntityId) {
	eb.selectedEntityId = id
}

// Selected returns the selected entity id, or 0.
func (eb *EntityBrowser) Selected() engine.EntityId {
	return eb.selectedEntityId
}
