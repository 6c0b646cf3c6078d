package server

// DashboardHTML is the embedded single-page review view for Retrace.
// It draws the recorded path top-down (X/Z), follows playback over the
// WebSocket and sends play/pause/seek commands back.
const DashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Retrace Review</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, monospace;
    background: #0d1117; color: #c9d1d9; padding: 20px;
  }
  h1 { color: #58a6ff; margin-bottom: 4px; font-size: 1.5em; }
  .subtitle { color: #8b949e; margin-bottom: 20px; font-size: 0.9em; }
  .status-bar {
    display: flex; gap: 20px; margin-bottom: 20px; padding: 12px 16px;
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
  }
  .status-item { display: flex; flex-direction: column; }
  .status-label { font-size: 0.75em; color: #8b949e; text-transform: uppercase; }
  .status-value { font-size: 1.1em; font-weight: 600; }
  .status-value.connected { color: #3fb950; }
  .status-value.disconnected { color: #f85149; }
  .stats {
    display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
    gap: 12px; margin-bottom: 20px;
  }
  .stat-card {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    padding: 16px; text-align: center;
  }
  .stat-number { font-size: 2em; font-weight: 700; color: #58a6ff; }
  .stat-label { font-size: 0.8em; color: #8b949e; margin-top: 4px; }
  .view {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    padding: 12px;
  }
  canvas { width: 100%; height: 480px; display: block; background: #0d1117; border-radius: 4px; }
  .transport { display: flex; gap: 12px; align-items: center; margin-top: 12px; }
  .transport input[type=range] { flex: 1; }
  .transport button {
    background: #21262d; color: #c9d1d9; border: 1px solid #30363d;
    padding: 6px 16px; border-radius: 4px; cursor: pointer; min-width: 80px;
  }
  .transport button:hover { background: #30363d; }
  .transport button:disabled, .transport input:disabled { opacity: 0.4; cursor: default; }
  #label { font-variant-numeric: tabular-nums; color: #8b949e; min-width: 110px; text-align: right; }
  .legend { margin-top: 8px; font-size: 0.8em; color: #8b949e; }
  .legend span { margin-right: 16px; }
  .swatch { display: inline-block; width: 10px; height: 10px; border-radius: 50%; margin-right: 4px; vertical-align: middle; }
  .empty-state { text-align: center; padding: 60px 20px; color: #8b949e; }
</style>
</head>
<body>
<h1>Retrace Review</h1>
<p class="subtitle" id="subtitle">No timeline loaded</p>

<div class="status-bar">
  <div class="status-item">
    <span class="status-label">Connection</span>
    <span class="status-value disconnected" id="conn-status">Disconnected</span>
  </div>
  <div class="status-item">
    <span class="status-label">State</span>
    <span class="status-value" id="state">idle</span>
  </div>
  <div class="status-item">
    <span class="status-label">Sample</span>
    <span class="status-value" id="sample">0 / 0</span>
  </div>
</div>

<div class="stats">
  <div class="stat-card"><div class="stat-number" id="stat-samples">0</div><div class="stat-label">Samples</div></div>
  <div class="stat-card"><div class="stat-number" id="stat-duration">0.0s</div><div class="stat-label">Duration</div></div>
  <div class="stat-card"><div class="stat-number" id="stat-distance">0.0</div><div class="stat-label">Distance</div></div>
  <div class="stat-card"><div class="stat-number" id="stat-keys">0</div><div class="stat-label">Key Events</div></div>
</div>

<div class="view">
  <canvas id="map" width="960" height="480"></canvas>
  <div class="transport">
    <button id="toggle" disabled onclick="send({op: 'toggle'})">Play</button>
    <input type="range" id="slider" min="0" max="1" step="0.001" value="0" disabled>
    <span id="label">0.0s / 0.0s</span>
  </div>
  <div class="legend">
    <span><i class="swatch" style="background:#30363d"></i>recorded path</span>
    <span><i class="swatch" style="background:#58a6ff"></i>walked</span>
    <span><i class="swatch" style="background:#d29922"></i>Space</span>
    <span><i class="swatch" style="background:#d2a8ff"></i>M</span>
  </div>
</div>

<script>
let ws = null;
let timeline = { positions: [], keyEvents: [] };
let state = { index: 0, count: 0, fraction: 0, label: '0.0s / 0.0s', state: 'idle', interactive: false };
let dragging = false;
const canvas = document.getElementById('map');
const ctx = canvas.getContext('2d');
const slider = document.getElementById('slider');

function connect() {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  ws = new WebSocket(proto + '//' + location.host + '/ws');

  ws.onopen = () => {
    document.getElementById('conn-status').textContent = 'Connected';
    document.getElementById('conn-status').className = 'status-value connected';
    loadTimeline();
  };

  ws.onclose = () => {
    document.getElementById('conn-status').textContent = 'Disconnected';
    document.getElementById('conn-status').className = 'status-value disconnected';
    setTimeout(connect, 2000);
  };

  ws.onmessage = (e) => {
    const msg = JSON.parse(e.data);
    if (msg.type === 'state') {
      state = msg.state;
      render();
    } else if (msg.type === 'timeline') {
      loadTimeline();
    } else if (msg.type === 'error') {
      console.warn(msg.error);
    }
  };
}

function send(cmd) {
  if (ws && ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(cmd));
}

async function loadTimeline() {
  const resp = await fetch('/api/timeline');
  timeline = await resp.json();
  const s = timeline.stats;
  document.getElementById('subtitle').textContent = timeline.name ? 'Timeline ' + timeline.name : 'No timeline loaded';
  document.getElementById('stat-samples').textContent = s.samples;
  document.getElementById('stat-duration').textContent = (s.duration / 1e9).toFixed(1) + 's';
  document.getElementById('stat-distance').textContent = s.distance.toFixed(1);
  document.getElementById('stat-keys').textContent = s.key_events;
  render();
}

function project(bounds, p) {
  const pad = 24;
  const w = canvas.width - 2 * pad, h = canvas.height - 2 * pad;
  const sx = bounds.maxX - bounds.minX || 1, sz = bounds.maxZ - bounds.minZ || 1;
  const scale = Math.min(w / sx, h / sz);
  return [pad + (p.x - bounds.minX) * scale, canvas.height - pad - (p.z - bounds.minZ) * scale];
}

function polyline(bounds, pts, color, width) {
  if (pts.length < 2) return;
  ctx.strokeStyle = color; ctx.lineWidth = width; ctx.beginPath();
  pts.forEach((p, i) => {
    const [x, y] = project(bounds, p);
    if (i === 0) ctx.moveTo(x, y); else ctx.lineTo(x, y);
  });
  ctx.stroke();
}

function dot(bounds, p, color, r) {
  const [x, y] = project(bounds, p);
  ctx.fillStyle = color; ctx.beginPath(); ctx.arc(x, y, r, 0, 2 * Math.PI); ctx.fill();
}

function render() {
  document.getElementById('state').textContent = state.state;
  document.getElementById('sample').textContent = state.count ? (state.index + 1) + ' / ' + state.count : '0 / 0';
  document.getElementById('label').textContent = state.label;
  document.getElementById('toggle').textContent = state.state === 'playing' ? 'Pause' : 'Play';
  document.getElementById('toggle').disabled = state.count === 0;
  slider.disabled = !state.interactive;
  if (!dragging) slider.value = state.fraction;

  ctx.clearRect(0, 0, canvas.width, canvas.height);
  const pts = timeline.positions || [];
  if (pts.length === 0) {
    ctx.fillStyle = '#8b949e'; ctx.font = '14px monospace';
    ctx.fillText('No samples to replay', canvas.width / 2 - 80, canvas.height / 2);
    return;
  }
  const bounds = {
    minX: timeline.stats.min.x, maxX: timeline.stats.max.x,
    minZ: timeline.stats.min.z, maxZ: timeline.stats.max.z,
  };
  polyline(bounds, pts, '#30363d', 3);
  polyline(bounds, pts.slice(0, state.index + 1), '#58a6ff', 2);
  (timeline.keyEvents || []).forEach(e => dot(bounds, e.position, e.key === 'Space' ? '#d29922' : '#d2a8ff', 5));
  dot(bounds, pts[Math.min(state.index, pts.length - 1)], '#3fb950', 7);
}

slider.addEventListener('input', () => { dragging = true; });
slider.addEventListener('change', () => {
  dragging = false;
  send({ op: 'seek', fraction: parseFloat(slider.value) });
});

connect();
</script>
</body>
</html>`
