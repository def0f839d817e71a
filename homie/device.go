// Package homie publishes a device tree following the Homie MQTT
// convention (https://homieiq.github.io/convention/), so hubs can
// discover the device and its properties without prior configuration.
package homie

import "strings"

const Version = "4.0.0"

// Device states from the convention.
const (
	StateInit         = "init"
	StateReady        = "ready"
	StateDisconnected = "disconnected"
	StateLost         = "lost"
)

// Ids of the single node/property this device exposes.
const (
	PriceNodeId     = "price"
	PricePropertyId = "price"
)

type Property struct {
	Id       string
	Name     string
	Datatype string
	Unit     string
}

type Node struct {
	Id         string
	Name       string
	Type       string
	Properties []Property
}

type Device struct {
	BaseTopic string
	Id        string
	Name      string
	Nodes     []Node
}

// NewPriceDevice builds the device descriptor for the spot price
// tracker: one node with one retained float property.
func NewPriceDevice(baseTopic, id, name, unit string) Device {
	return Device{
		BaseTopic: baseTopic,
		Id:        id,
		Name:      name,
		Nodes: []Node{{
			Id:   PriceNodeId,
			Name: "Spot price",
			Type: "energy-price",
			Properties: []Property{{
				Id:       PricePropertyId,
				Name:     "Active price",
				Datatype: "float",
				Unit:     unit,
			}},
		}},
	}
}

func (d Device) topic(parts ...string) string {
	return strings.Join(append([]string{d.BaseTopic, d.Id}, parts...), "/")
}

// ValueTopic is where the current value of a property is published.
func (d Device) ValueTopic(nodeId, propertyId string) string {
	return d.topic(nodeId, propertyId)
}

type attribute struct {
	topic   string
	payload string
}

// descriptor returns the retained attribute messages announcing the
// device tree, in the order they must be published. $state=ready comes
// last, after all metadata is out.
func (d Device) descriptor() []attribute {
	attrs := []attribute{
		{d.topic("$state"), StateInit},
		{d.topic("$homie"), Version},
		{d.topic("$name"), d.Name},
	}

	nodeIds := make([]string, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		nodeIds = append(nodeIds, n.Id)
	}
	attrs = append(attrs, attribute{d.topic("$nodes"), strings.Join(nodeIds, ",")})

	for _, n := range d.Nodes {
		attrs = append(attrs,
			attribute{d.topic(n.Id, "$name"), n.Name},
			attribute{d.topic(n.Id, "$type"), n.Type})

		propIds := make([]string, 0, len(n.Properties))
		for _, p := range n.Properties {
			propIds = append(propIds, p.Id)
		}
		attrs = append(attrs, attribute{d.topic(n.Id, "$properties"), strings.Join(propIds, ",")})

		for _, p := range n.Properties {
			attrs = append(attrs,
				attribute{d.topic(n.Id, p.Id, "$name"), p.Name},
				attribute{d.topic(n.Id, p.Id, "$datatype"), p.Datatype},
				attribute{d.topic(n.Id, p.Id, "$settable"), "false"},
				attribute{d.topic(n.Id, p.Id, "$retained"), "true"})
			if p.Unit != "" {
				attrs = append(attrs, attribute{d.topic(n.Id, p.Id, "$unit"), p.Unit})
			}
		}
	}

	attrs = append(attrs, attribute{d.topic("$state"), StateReady})
	return attrs
}
