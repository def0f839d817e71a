package homie

import (
	"testing"
)

func TestNewPriceDeviceDescriptor(t *testing.T) {
	device := NewPriceDevice("homie", "spot-price", "Spot Price FI", "c/kWh")
	attrs := device.descriptor()

	byTopic := make(map[string]string, len(attrs))
	for _, a := range attrs {
		byTopic[a.topic] = a.payload
	}

	expected := map[string]string{
		"homie/spot-price/$homie":                   Version,
		"homie/spot-price/$name":                    "Spot Price FI",
		"homie/spot-price/$nodes":                   "price",
		"homie/spot-price/price/$properties":        "price",
		"homie/spot-price/price/price/$datatype":    "float",
		"homie/spot-price/price/price/$unit":        "c/kWh",
		"homie/spot-price/price/price/$settable":    "false",
		"homie/spot-price/price/price/$retained":    "true",
	}
	for topic, payload := range expected {
		if got, ok := byTopic[topic]; !ok {
			t.Errorf("descriptor missing topic %s", topic)
		} else if got != payload {
			t.Errorf("topic %s expected payload %q, got %q", topic, payload, got)
		}
	}
}

func TestDescriptorEndsWithReadyState(t *testing.T) {
	device := NewPriceDevice("homie", "spot-price", "Spot Price FI", "c/kWh")
	attrs := device.descriptor()

	if len(attrs) == 0 {
		t.Fatal("descriptor should not be empty")
	}
	first := attrs[0]
	if first.topic != "homie/spot-price/$state" || first.payload != StateInit {
		t.Errorf("descriptor should open with $state=init, got %s=%s", first.topic, first.payload)
	}
	last := attrs[len(attrs)-1]
	if last.topic != "homie/spot-price/$state" || last.payload != StateReady {
		t.Errorf("descriptor should end with $state=ready, got %s=%s", last.topic, last.payload)
	}
}

func TestValueTopic(t *testing.T) {
	device := NewPriceDevice("homie", "spot-price", "Spot Price FI", "c/kWh")
	expected := "homie/spot-price/price/price"
	if got := device.ValueTopic(PriceNodeId, PricePropertyId); got != expected {
		t.Errorf("ValueTopic() expected %q, got %q", expected, got)
	}
}
