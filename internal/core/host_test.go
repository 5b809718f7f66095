package core

import "testing"

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()

	if _, ok, err := kv.Get("highScore"); ok || err != nil {
		t.Errorf("Get on empty store = ok %v err %v, expected miss", ok, err)
	}

	if err := kv.Set("highScore", "12"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, err := kv.Get("highScore")
	if err != nil || !ok || v != "12" {
		t.Errorf("Get = %q,%v,%v, expected \"12\",true,nil", v, ok, err)
	}
}

func TestEnvWithDefaults(t *testing.T) {
	env := Env{}.WithDefaults()

	if env.Scheduler == nil || env.Store == nil || env.Sound == nil || env.Haptics == nil || env.Logger == nil {
		t.Fatalf("WithDefaults left a nil service: %+v", env)
	}

	kv := NewMemoryKV()
	env = Env{Store: kv}.WithDefaults()
	if env.Store != kv {
		t.Error("WithDefaults should keep provided services")
	}
}
