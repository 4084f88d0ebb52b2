package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sprout/engine"
)

// EntityInspector shows the exported fields of one entity and lets numbers,
// booleans and strings be edited in place.
type EntityInspector struct {
	selectedEntityId engine.EntityId
}

func NewEntityInspector() *EntityInspector {
	return &EntityInspector{}
}

func (ei *EntityInspector) Render(collection *engine.EntityCollection, selectedEntityId engine.EntityId) {
	if !imgui.BeginV("Entity Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ei.selectedEntityId = selectedEntityId

	if ei.selectedEntityId == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	entity, ok := collection.Lookup(ei.selectedEntityId)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %d not found (removed)", ei.selectedEntityId))
		imgui.End()
		return
	}

	caps, _ := collection.CapabilitiesOf(entity)
	bounds := entity.TransformedBounds()
	info := globalReflectionCache.Describe(entity)

	imgui.Text(fmt.Sprintf("Entity ID: %d", ei.selectedEntityId))
	imgui.Text("Type: " + info.Name)
	imgui.Text("Capabilities: " + globalReflectionCache.Label(caps))
	imgui.Text(fmt.Sprintf("Bounds: %.1f, %.1f  %.1f x %.1f", bounds.MinX, bounds.MinY, bounds.Width, bounds.Height))
	if imgui.Button("Remove") {
		collection.Remove(entity)
	}
	imgui.Separator()

	val := reflect.ValueOf(entity).Elem()
	for _, field := range info.Fields {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}
		ei.renderField(field.Name, fieldVal, field)
	}

	imgui.End()
}

func (ei *EntityInspector) renderField(name string, val reflect.Value, field FieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.Kind() == reflect.Ptr && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	if !val.CanInterface() && val.Kind() != reflect.Struct {
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		nestedFields := globalReflectionCache.GetFields(val.Type())
		if len(nestedFields) == 0 {
			if val.CanInterface() {
				imgui.Text(fmt.Sprintf("%s: %+v", name, val.Interface()))
			}
			return
		}
		if imgui.TreeNodeStr(name) {
			for _, nf := range nestedFields {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ei.renderField(nf.Name, nestedVal, nf)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
