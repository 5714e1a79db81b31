package extract

import (
	"github.com/Lemonzyy/nbt-sniffer/pkg/counter"
	"github.com/Lemonzyy/nbt-sniffer/pkg/nbt"
	"github.com/Lemonzyy/nbt-sniffer/pkg/query"
)

// NBT keys recognized while walking item and holder data.
const (
	keyID             = "id"
	keyCount          = "count"
	keyItems          = "Items"
	keyInventory      = "Inventory"
	keyItem           = "Item"
	keyEquipment      = "equipment"
	keyPassengers     = "Passengers"
	keyComponents     = "components"
	keyContainer      = "minecraft:container"
	keyBundleContents = "minecraft:bundle_contents"
	keyEnderItems     = "EnderItems"
)

// maxItemDepth caps container-in-container recursion. Legitimate worlds
// nest a handful of levels; the data is untrusted.
const maxItemDepth = 64

// Item processes one item compound: it always recurses into the two nested
// container shapes first (a shulker box's slot-wrapped contents and a
// bundle's direct contents), then tests the item itself against filters.
// Matching items are added to c and wrapped in a summary node over their
// matched descendants; non-matching items contribute their descendants'
// nodes directly, so a matching diamond stays visible inside a
// non-matching box.
func Item(item nbt.Compound, filters []query.Filter, c *counter.Counter) []*SummaryNode {
	return extractItem(item, filters, c, 0)
}

func extractItem(item nbt.Compound, filters []query.Filter, c *counter.Counter, depth int) []*SummaryNode {
	if item == nil || depth > maxItemDepth {
		return nil
	}

	id, ok := item.GetString(keyID)
	if !ok {
		return nil
	}
	count := int64(1)
	if n, ok := item.GetInt(keyCount); ok {
		count = int64(n)
	}
	components := item.GetCompound(keyComponents)

	var children []*SummaryNode
	if components != nil {
		for _, slot := range components.GetList(keyContainer) {
			wrapper, ok := slot.(nbt.Compound)
			if !ok {
				continue
			}
			sub, ok := wrapper["item"].(nbt.Compound)
			if !ok {
				continue
			}
			children = append(children, extractItem(sub, filters, c, depth+1)...)
		}
		for _, el := range components.GetList(keyBundleContents) {
			sub, ok := el.(nbt.Compound)
			if !ok {
				continue
			}
			children = append(children, extractItem(sub, filters, c, depth+1)...)
		}
	}

	var componentsVal nbt.Value
	if components != nil {
		componentsVal = components
	}
	if !query.MatchesAny(filters, id, componentsVal) {
		return children
	}

	c.Add(id, componentsVal, count)
	snbt := ""
	if components != nil {
		snbt = nbt.ToSNBT(components)
	}
	return []*SummaryNode{NewItem(id, count, snbt, children)}
}

// ItemList runs Item over every compound element of a list, such as a block
// entity's Items or a player's Inventory.
func ItemList(items nbt.List, filters []query.Filter, c *counter.Counter) []*SummaryNode {
	var nodes []*SummaryNode
	for _, el := range items {
		item, ok := el.(nbt.Compound)
		if !ok {
			continue
		}
		nodes = append(nodes, Item(item, filters, c)...)
	}
	return nodes
}

// BlockEntity tallies the contents of one block entity compound.
func BlockEntity(be nbt.Compound, filters []query.Filter, c *counter.Counter) []*SummaryNode {
	return ItemList(be.GetList(keyItems), filters, c)
}

// Entity tallies everything an entity carries: cargo (Items), Inventory,
// a held/dropped Item, worn equipment and, recursively, its passengers.
func Entity(entity nbt.Compound, filters []query.Filter, c *counter.Counter) []*SummaryNode {
	return extractEntity(entity, filters, c, 0)
}

func extractEntity(entity nbt.Compound, filters []query.Filter, c *counter.Counter, depth int) []*SummaryNode {
	if entity == nil || depth > maxItemDepth {
		return nil
	}

	var nodes []*SummaryNode
	nodes = append(nodes, ItemList(entity.GetList(keyItems), filters, c)...)
	nodes = append(nodes, ItemList(entity.GetList(keyInventory), filters, c)...)
	if item := entity.GetCompound(keyItem); item != nil {
		nodes = append(nodes, Item(item, filters, c)...)
	}
	if equipment := entity.GetCompound(keyEquipment); equipment != nil {
		for _, slot := range equipment {
			item, ok := slot.(nbt.Compound)
			if !ok {
				continue
			}
			nodes = append(nodes, Item(item, filters, c)...)
		}
	}
	for _, el := range entity.GetList(keyPassengers) {
		passenger, ok := el.(nbt.Compound)
		if !ok {
			continue
		}
		nodes = append(nodes, extractEntity(passenger, filters, c, depth+1)...)
	}
	return nodes
}

// Player tallies a player's main inventory and ender chest.
func Player(player nbt.Compound, filters []query.Filter, c *counter.Counter) []*SummaryNode {
	nodes := ItemList(player.GetList(keyInventory), filters, c)
	return append(nodes, ItemList(player.GetList(keyEnderItems), filters, c)...)
}
